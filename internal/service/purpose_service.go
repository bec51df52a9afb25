package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ncip-portal/internal/dto"
	"ncip-portal/internal/entity"
	"ncip-portal/internal/pkg/apperror"
	"ncip-portal/internal/pkg/logger"
	"ncip-portal/internal/repository/memory"
	"ncip-portal/internal/repository/specification"
	"ncip-portal/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// PurposeLookup resolves a purpose with its requirements.
type PurposeLookup interface {
	Lookup(ctx context.Context, id uuid.UUID) (*entity.Purpose, error)
}

type IPurposeService interface {
	PurposeLookup
	List(ctx context.Context) ([]dto.PurposeResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PurposeResponse, error)
	Create(ctx context.Context, req *dto.CreatePurposeRequest) (*dto.PurposeResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type purposeService struct {
	uowFactory          unitofwork.RepositoryFactory
	cache               *memory.PurposeCache
	logger              logger.ILogger
	defaultDeadlineDays int
}

func NewPurposeService(uowFactory unitofwork.RepositoryFactory, cache *memory.PurposeCache, logger logger.ILogger, defaultDeadlineDays int) IPurposeService {
	return &purposeService{
		uowFactory:          uowFactory,
		cache:               cache,
		logger:              logger,
		defaultDeadlineDays: defaultDeadlineDays,
	}
}

func (s *purposeService) Lookup(ctx context.Context, id uuid.UUID) (*entity.Purpose, error) {
	if p, ok := s.cache.Get(id); ok {
		return p, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	purpose, err := uow.PurposeRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, fmt.Errorf("load purpose: %w", err)
	}
	if purpose == nil {
		return nil, apperror.NotFound("purpose %s not found", id)
	}

	s.cache.Set(purpose)
	return purpose, nil
}

func (s *purposeService) List(ctx context.Context) ([]dto.PurposeResponse, error) {
	purposes, ok := s.cache.GetActive()
	if !ok {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		var err error
		purposes, err = uow.PurposeRepository().FindAll(ctx,
			specification.ActiveOnly{},
			specification.OrderBy{Field: "name"},
		)
		if err != nil {
			return nil, fmt.Errorf("list purposes: %w", err)
		}
		s.cache.SetActive(purposes)
	}

	res := make([]dto.PurposeResponse, 0, len(purposes))
	for _, p := range purposes {
		res = append(res, toPurposeResponse(p))
	}
	return res, nil
}

func (s *purposeService) Get(ctx context.Context, id uuid.UUID) (*dto.PurposeResponse, error) {
	p, err := s.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	res := toPurposeResponse(p)
	return &res, nil
}

func (s *purposeService) Create(ctx context.Context, req *dto.CreatePurposeRequest) (*dto.PurposeResponse, error) {
	now := time.Now()
	deadlineDays := req.DeadlineDays
	if deadlineDays <= 0 {
		deadlineDays = s.defaultDeadlineDays
	}

	purpose := &entity.Purpose{
		Id:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Code:         entity.CodeFromName(req.Name),
		Description:  req.Description,
		DeadlineDays: deadlineDays,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for i, r := range req.Requirements {
		mandatory := true
		if r.IsMandatory != nil {
			mandatory = *r.IsMandatory
		}
		maxSize := r.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 5
		}
		allowed := r.AllowedTypes
		if len(allowed) == 0 {
			allowed = []string{"pdf", "jpg", "jpeg", "png"}
		}
		purpose.Requirements = append(purpose.Requirements, entity.Requirement{
			Id:           uuid.New(),
			Name:         strings.TrimSpace(r.Name),
			Description:  r.Description,
			IsMandatory:  mandatory,
			AllowedTypes: allowed,
			MaxSizeMB:    maxSize,
			SortOrder:    i + 1,
			IsActive:     true,
		})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PurposeRepository().Create(ctx, purpose); err != nil {
		return nil, err
	}
	s.cache.Flush()

	s.logger.Info("PURPOSE", "Purpose created", map[string]interface{}{
		"purpose_id":   purpose.Id.String(),
		"name":         purpose.Name,
		"requirements": len(purpose.Requirements),
	})

	res := toPurposeResponse(purpose)
	return &res, nil
}

func (s *purposeService) Deactivate(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PurposeRepository().Deactivate(ctx, id); err != nil {
		return err
	}
	s.cache.Flush()
	return nil
}

func toPurposeResponse(p *entity.Purpose) dto.PurposeResponse {
	reqs := make([]dto.RequirementResponse, 0, len(p.Requirements))
	for _, r := range p.ActiveRequirements() {
		reqs = append(reqs, dto.RequirementResponse{
			Id:           r.Id,
			Name:         r.Name,
			Description:  r.Description,
			IsMandatory:  r.IsMandatory,
			AllowedTypes: r.AllowedTypes,
			MaxSizeMB:    r.MaxSizeMB,
			SortOrder:    r.SortOrder,
		})
	}
	return dto.PurposeResponse{
		Id:           p.Id,
		Name:         p.Name,
		Code:         p.Code,
		Description:  p.Description,
		DeadlineDays: p.DeadlineDays,
		IsActive:     p.IsActive,
		Requirements: reqs,
	}
}
