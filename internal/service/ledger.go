package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ncip-portal/internal/entity"
	"ncip-portal/internal/pkg/apperror"
	"ncip-portal/internal/repository/contract"
	"ncip-portal/pkg/lifecycle"

	"github.com/google/uuid"
)

// Ledger applies requirement compliance transitions. It works on the
// repository it is handed, so it joins whatever transaction the caller's
// unit of work holds. It never touches application status.
type Ledger struct{}

func NewLedger() *Ledger {
	return &Ledger{}
}

type complianceMutation func(entry *entity.RequirementCompliance) (bool, error)

func (l *Ledger) apply(ctx context.Context, repo contract.ComplianceRepository, appID, reqID uuid.UUID, mutate complianceMutation) (*entity.RequirementCompliance, error) {
	entry, err := repo.FindOne(ctx, appID, reqID)
	if err != nil {
		return nil, fmt.Errorf("load compliance entry: %w", err)
	}
	if entry == nil {
		return nil, apperror.NotFound("requirement %s is not part of application %s", reqID, appID)
	}

	changed, err := mutate(entry)
	if err != nil {
		return nil, err
	}
	if !changed {
		return entry, nil
	}
	if err := repo.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("save compliance entry: %w", err)
	}
	return entry, nil
}

func (l *Ledger) MarkMissing(ctx context.Context, repo contract.ComplianceRepository, appID, reqID uuid.UUID, when time.Time) (*entity.RequirementCompliance, error) {
	return l.apply(ctx, repo, appID, reqID, func(e *entity.RequirementCompliance) (bool, error) {
		return e.MarkMissing(when), nil
	})
}

// MarkSubmitted is a no-op for an entry already submitted and pending; a
// reviewed entry goes back to pending.
func (l *Ledger) MarkSubmitted(ctx context.Context, repo contract.ComplianceRepository, appID, reqID uuid.UUID, when time.Time) (*entity.RequirementCompliance, error) {
	return l.apply(ctx, repo, appID, reqID, func(e *entity.RequirementCompliance) (bool, error) {
		return e.MarkSubmitted(when), nil
	})
}

func (l *Ledger) MarkReviewed(ctx context.Context, repo contract.ComplianceRepository, appID, reqID uuid.UUID, approved bool, when time.Time) (*entity.RequirementCompliance, error) {
	return l.apply(ctx, repo, appID, reqID, func(e *entity.RequirementCompliance) (bool, error) {
		changed, err := e.MarkReviewed(approved, when)
		if errors.Is(err, entity.ErrNothingToReview) {
			return false, apperror.Conflict("requirement %q has no submitted document to review", e.RequirementName)
		}
		return changed, err
	})
}

func (l *Ledger) Counts(ctx context.Context, repo contract.ComplianceRepository, appID uuid.UUID) (lifecycle.Counts, error) {
	entries, err := repo.FindByApplication(ctx, appID)
	if err != nil {
		return lifecycle.Counts{}, fmt.Errorf("load compliance ledger: %w", err)
	}
	return entity.CountLedger(entries), nil
}

func (l *Ledger) IsFullyApproved(ctx context.Context, repo contract.ComplianceRepository, appID uuid.UUID) (bool, error) {
	c, err := l.Counts(ctx, repo, appID)
	if err != nil {
		return false, err
	}
	return c.FullyApproved(), nil
}

func (l *Ledger) IsFullySubmitted(ctx context.Context, repo contract.ComplianceRepository, appID uuid.UUID) (bool, error) {
	c, err := l.Counts(ctx, repo, appID)
	if err != nil {
		return false, err
	}
	return c.FullySubmitted(), nil
}
