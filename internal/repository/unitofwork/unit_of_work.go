package unitofwork

import (
	"context"

	"ncip-portal/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	PurposeRepository() contract.PurposeRepository
	ApplicationRepository() contract.ApplicationRepository
	ComplianceRepository() contract.ComplianceRepository
	DocumentRepository() contract.DocumentRepository
	CancellationRepository() contract.CancellationRepository
	NotificationRepository() contract.NotificationRepository
	GenealogyRepository() contract.GenealogyRepository
}
