package service

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"ncip-portal/internal/dto"
	"ncip-portal/internal/entity"
	"ncip-portal/internal/pkg/apperror"
	"ncip-portal/internal/pkg/clock"
	"ncip-portal/internal/pkg/logger"
	"ncip-portal/internal/repository/contract"
	"ncip-portal/internal/repository/specification"
	"ncip-portal/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const (
	minSearchTermLen    = 2
	genealogySearchSize = 50
	birthDateLayout     = "2006-01-02"

	relationChild  = "child"
	relationParent = "parent"
)

type IGenealogyService interface {
	Search(ctx context.Context, term string) (*dto.GenealogySearchResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.GenealogyDetailResponse, error)
	Create(ctx context.Context, createdBy uuid.UUID, req *dto.CreateGenealogyRequest) (*dto.GenealogyRecordResponse, error)
	// AddMember records a child or a parent of an existing person and links
	// the two.
	AddMember(ctx context.Context, createdBy, refID uuid.UUID, req *dto.AddFamilyMemberRequest) (*dto.GenealogyRecordResponse, error)

	// Admin
	Stats(ctx context.Context) (*dto.GenealogyStatsResponse, error)
	Verify(ctx context.Context, adminID, id uuid.UUID) (*dto.GenealogyRecordResponse, error)
}

type genealogyService struct {
	uowFactory unitofwork.RepositoryFactory
	clock      clock.Clock
	logger     logger.ILogger
}

func NewGenealogyService(uowFactory unitofwork.RepositoryFactory, clk clock.Clock, logger logger.ILogger) IGenealogyService {
	return &genealogyService{
		uowFactory: uowFactory,
		clock:      clk,
		logger:     logger,
	}
}

func (s *genealogyService) Search(ctx context.Context, term string) (*dto.GenealogySearchResponse, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < minSearchTermLen {
		return nil, apperror.Validation("search term must be at least %d characters", minSearchTermLen)
	}

	repo := s.uowFactory.NewUnitOfWork(ctx).GenealogyRepository()
	records, err := repo.Search(ctx, term, genealogySearchSize)
	if err != nil {
		return nil, err
	}
	items, err := s.present(ctx, repo, records)
	if err != nil {
		return nil, err
	}
	return &dto.GenealogySearchResponse{Count: len(items), Records: items}, nil
}

func (s *genealogyService) Get(ctx context.Context, id uuid.UUID) (*dto.GenealogyDetailResponse, error) {
	repo := s.uowFactory.NewUnitOfWork(ctx).GenealogyRepository()
	rec, err := repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperror.NotFound("genealogy record %s not found", id)
	}

	rels, err := repo.FindRelationships(ctx, rec.Id)
	if err != nil {
		return nil, err
	}
	related, err := s.relatedRecords(ctx, repo, rels)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rels, func(i, j int) bool { return rels[i].Type.Rank() < rels[j].Type.Rank() })
	res := &dto.GenealogyDetailResponse{
		Person:        toGenealogyResponse(rec, parentNames(rec.Id, rels, related)),
		Relationships: make([]dto.GenealogyRelationResponse, 0, len(rels)),
	}
	for _, rel := range rels {
		person, ok := related[rel.RelatedPersonId]
		if !ok {
			continue
		}
		res.Relationships = append(res.Relationships, dto.GenealogyRelationResponse{
			Type:   string(rel.Type),
			Person: toGenealogyResponse(person, [2]string{}),
		})
	}
	return res, nil
}

func (s *genealogyService) Create(ctx context.Context, createdBy uuid.UUID, req *dto.CreateGenealogyRequest) (*dto.GenealogyRecordResponse, error) {
	now := s.clock.Now()
	rec, err := newGenealogyRecord(&req.GenealogyPersonRequest, createdBy, now)
	if err != nil {
		return nil, err
	}
	if req.GenerationLevel < 1 {
		return nil, apperror.Validation("generation level must be at least 1")
	}
	rec.GenerationLevel = req.GenerationLevel
	rec.IsLiving = req.IsLiving == nil || *req.IsLiving

	links := []struct {
		kind entity.RelationshipType
		id   *uuid.UUID
	}{
		{entity.RelationshipFather, req.FatherId},
		{entity.RelationshipMother, req.MotherId},
		{entity.RelationshipPaternalGrandfather, req.PaternalGrandfatherId},
		{entity.RelationshipPaternalGrandmother, req.PaternalGrandmotherId},
		{entity.RelationshipMaternalGrandfather, req.MaternalGrandfatherId},
		{entity.RelationshipMaternalGrandmother, req.MaternalGrandmotherId},
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	repo := uow.GenealogyRepository()
	if err := repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	names := [2]string{}
	for _, l := range links {
		if l.id == nil {
			continue
		}
		related, err := s.mustFind(ctx, repo, *l.id, string(l.kind))
		if err != nil {
			return nil, err
		}
		if err := s.link(ctx, repo, rec.Id, l.kind, related, createdBy, now); err != nil {
			return nil, err
		}
		switch l.kind {
		case entity.RelationshipFather:
			names[0] = related.FullName
		case entity.RelationshipMother:
			names[1] = related.FullName
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("GENEALOGY", "Genealogy record created", map[string]interface{}{
		"genealogy_id": rec.Id.String(),
		"created_by":   createdBy.String(),
		"generation":   rec.GenerationLevel,
	})
	res := toGenealogyResponse(rec, names)
	return &res, nil
}

func (s *genealogyService) AddMember(ctx context.Context, createdBy, refID uuid.UUID, req *dto.AddFamilyMemberRequest) (*dto.GenealogyRecordResponse, error) {
	now := s.clock.Now()
	rec, err := newGenealogyRecord(&req.GenealogyPersonRequest, createdBy, now)
	if err != nil {
		return nil, err
	}
	rec.IsLiving = true

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	repo := uow.GenealogyRepository()
	ref, err := repo.FindOne(ctx, specification.ByID{ID: refID})
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, apperror.NotFound("genealogy record %s not found", refID)
	}

	names := [2]string{}
	switch req.Relationship {
	case relationChild:
		if !ref.Gender.Known() {
			return nil, apperror.Validation("record the gender of %s before adding children", ref.FullName)
		}
		var other *entity.GenealogyRecord
		if req.OtherParentId != nil {
			if *req.OtherParentId == ref.Id {
				return nil, apperror.Validation("the other parent must be a different person")
			}
			other, err = s.mustFind(ctx, repo, *req.OtherParentId, "other parent")
			if err != nil {
				return nil, err
			}
			if !other.Gender.Known() || other.Gender == ref.Gender {
				return nil, apperror.Validation("a child is linked to one father and one mother")
			}
		}

		rec.GenerationLevel = ref.GenerationLevel + 1
		if err := repo.Create(ctx, rec); err != nil {
			return nil, err
		}
		for _, parent := range []*entity.GenealogyRecord{ref, other} {
			if parent == nil {
				continue
			}
			kind := entity.ParentRelationship(parent.Gender)
			if err := s.link(ctx, repo, rec.Id, kind, parent, createdBy, now); err != nil {
				return nil, err
			}
			if kind == entity.RelationshipFather {
				names[0] = parent.FullName
			} else {
				names[1] = parent.FullName
			}
		}

	case relationParent:
		if !rec.Gender.Known() {
			return nil, apperror.Validation("gender is required when adding a parent")
		}
		if ref.GenerationLevel <= 1 {
			return nil, apperror.Validation("%s is already at the first recorded generation", ref.FullName)
		}
		rec.GenerationLevel = ref.GenerationLevel - 1
		if err := repo.Create(ctx, rec); err != nil {
			return nil, err
		}
		if err := s.link(ctx, repo, ref.Id, entity.ParentRelationship(rec.Gender), rec, createdBy, now); err != nil {
			return nil, err
		}

	default:
		return nil, apperror.Validation("relationship must be child or parent")
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("GENEALOGY", "Family member added", map[string]interface{}{
		"genealogy_id": rec.Id.String(),
		"reference_id": ref.Id.String(),
		"relationship": req.Relationship,
		"created_by":   createdBy.String(),
	})
	res := toGenealogyResponse(rec, names)
	return &res, nil
}

func (s *genealogyService) Stats(ctx context.Context) (*dto.GenealogyStatsResponse, error) {
	stats, err := s.uowFactory.NewUnitOfWork(ctx).GenealogyRepository().Stats(ctx)
	if err != nil {
		return nil, err
	}

	res := &dto.GenealogyStatsResponse{
		TotalRecords:       stats.Total,
		TotalEthnicities:   stats.Ethnicities,
		VerifiedRecords:    stats.Verified,
		Generation3:        stats.Generation3,
		Generation4:        stats.Generation4,
		Generation5:        stats.Generation5,
		Generation6Plus:    stats.Generation6Plus,
		EthnicityBreakdown: make([]dto.EthnicityCountResponse, 0, len(stats.ByEthnicity)),
	}
	for _, e := range stats.ByEthnicity {
		res.EthnicityBreakdown = append(res.EthnicityBreakdown, dto.EthnicityCountResponse{Ethnicity: e.Ethnicity, Count: e.Count})
	}
	return res, nil
}

// Verify marks a record as checked by an administrator. Verifying twice
// keeps the first verification.
func (s *genealogyService) Verify(ctx context.Context, adminID, id uuid.UUID) (*dto.GenealogyRecordResponse, error) {
	repo := s.uowFactory.NewUnitOfWork(ctx).GenealogyRepository()
	rec, err := repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperror.NotFound("genealogy record %s not found", id)
	}

	if !rec.IsVerified {
		now := s.clock.Now()
		rec.IsVerified = true
		rec.VerifiedBy = &adminID
		rec.VerifiedAt = &now
		rec.UpdatedAt = now
		if err := repo.Update(ctx, rec); err != nil {
			return nil, err
		}
		s.logger.Info("GENEALOGY", "Genealogy record verified", map[string]interface{}{
			"genealogy_id": rec.Id.String(),
			"admin_id":     adminID.String(),
		})
	}

	items, err := s.present(ctx, repo, []*entity.GenealogyRecord{rec})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *genealogyService) mustFind(ctx context.Context, repo contract.GenealogyRepository, id uuid.UUID, role string) (*entity.GenealogyRecord, error) {
	rec, err := repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperror.Validation("%s record %s does not exist", strings.ReplaceAll(role, "_", " "), id)
	}
	return rec, nil
}

// link records related as the person's ancestor of the given kind.
func (s *genealogyService) link(ctx context.Context, repo contract.GenealogyRepository, personID uuid.UUID, kind entity.RelationshipType, related *entity.GenealogyRecord, createdBy uuid.UUID, now time.Time) error {
	if related.Id == personID {
		return apperror.Validation("a person cannot be their own %s", kind)
	}
	if related.Gender.Known() && related.Gender != kind.Gender() {
		return apperror.Validation("%s is recorded as %s and cannot be linked as %s", related.FullName, related.Gender, strings.ReplaceAll(string(kind), "_", " "))
	}
	return repo.CreateRelationship(ctx, &entity.GenealogyRelationship{
		PersonId:        personID,
		RelatedPersonId: related.Id,
		Type:            kind,
		CreatedBy:       createdBy,
		CreatedAt:       now,
	})
}

func (s *genealogyService) relatedRecords(ctx context.Context, repo contract.GenealogyRepository, rels []*entity.GenealogyRelationship) (map[uuid.UUID]*entity.GenealogyRecord, error) {
	out := map[uuid.UUID]*entity.GenealogyRecord{}
	if len(rels) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(rels))
	for _, rel := range rels {
		ids = append(ids, rel.RelatedPersonId)
	}
	records, err := repo.FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		out[r.Id] = r
	}
	return out, nil
}

// present converts records for output with their parents' names filled in.
func (s *genealogyService) present(ctx context.Context, repo contract.GenealogyRepository, records []*entity.GenealogyRecord) ([]dto.GenealogyRecordResponse, error) {
	ids := make([]uuid.UUID, len(records))
	for i, r := range records {
		ids[i] = r.Id
	}
	rels, err := repo.FindRelationships(ctx, ids...)
	if err != nil {
		return nil, err
	}
	related, err := s.relatedRecords(ctx, repo, rels)
	if err != nil {
		return nil, err
	}

	out := make([]dto.GenealogyRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toGenealogyResponse(r, parentNames(r.Id, rels, related)))
	}
	return out, nil
}

// parentNames returns the father's and mother's names of personID.
func parentNames(personID uuid.UUID, rels []*entity.GenealogyRelationship, related map[uuid.UUID]*entity.GenealogyRecord) [2]string {
	var names [2]string
	for _, rel := range rels {
		if rel.PersonId != personID {
			continue
		}
		p, ok := related[rel.RelatedPersonId]
		if !ok {
			continue
		}
		switch rel.Type {
		case entity.RelationshipFather:
			names[0] = p.FullName
		case entity.RelationshipMother:
			names[1] = p.FullName
		}
	}
	return names
}

func newGenealogyRecord(req *dto.GenealogyPersonRequest, createdBy uuid.UUID, now time.Time) (*entity.GenealogyRecord, error) {
	fullName := strings.TrimSpace(req.FullName)
	if utf8.RuneCountInString(fullName) < 2 {
		return nil, apperror.Validation("full name must be at least 2 characters")
	}

	rec := &entity.GenealogyRecord{
		Id:               uuid.New(),
		FullName:         fullName,
		FirstName:        strings.TrimSpace(req.FirstName),
		MiddleName:       strings.TrimSpace(req.MiddleName),
		LastName:         strings.TrimSpace(req.LastName),
		Suffix:           strings.TrimSpace(req.Suffix),
		BirthPlace:       strings.TrimSpace(req.BirthPlace),
		Ethnicity:        strings.TrimSpace(req.Ethnicity),
		TribeAffiliation: strings.TrimSpace(req.TribeAffiliation),
		Barangay:         strings.TrimSpace(req.Barangay),
		City:             strings.TrimSpace(req.City),
		Province:         strings.TrimSpace(req.Province),
		CurrentAddress:   strings.TrimSpace(req.CurrentAddress),
		Gender:           entity.Gender(req.Gender),
		Notes:            strings.TrimSpace(req.Notes),
		CreatedBy:        createdBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if rec.Gender != "" && !rec.Gender.Known() {
		return nil, apperror.Validation("gender must be Male or Female")
	}
	if req.BirthDate != "" {
		born, err := time.Parse(birthDateLayout, req.BirthDate)
		if err != nil {
			return nil, apperror.Validation("birth date must be YYYY-MM-DD")
		}
		if born.After(now) {
			return nil, apperror.Validation("birth date cannot be in the future")
		}
		rec.BirthDate = &born
	}
	return rec, nil
}

func toGenealogyResponse(r *entity.GenealogyRecord, parents [2]string) dto.GenealogyRecordResponse {
	res := dto.GenealogyRecordResponse{
		Id:               r.Id,
		FullName:         r.FullName,
		FirstName:        r.FirstName,
		MiddleName:       r.MiddleName,
		LastName:         r.LastName,
		Suffix:           r.Suffix,
		BirthPlace:       r.BirthPlace,
		Ethnicity:        r.Ethnicity,
		TribeAffiliation: r.TribeAffiliation,
		Barangay:         r.Barangay,
		City:             r.City,
		Province:         r.Province,
		CurrentAddress:   r.CurrentAddress,
		GenerationLevel:  r.GenerationLevel,
		Gender:           string(r.Gender),
		IsLiving:         r.IsLiving,
		IsVerified:       r.IsVerified,
		VerifiedAt:       r.VerifiedAt,
		Notes:            r.Notes,
		FatherName:       parents[0],
		MotherName:       parents[1],
		CreatedAt:        r.CreatedAt,
	}
	if r.BirthDate != nil {
		res.BirthDate = r.BirthDate.Format(birthDateLayout)
	}
	return res
}
