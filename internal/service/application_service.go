package service

import (
	"context"
	"fmt"
	"strings"

	"ncip-portal/internal/dto"
	"ncip-portal/internal/entity"
	"ncip-portal/internal/pkg/apperror"
	"ncip-portal/internal/pkg/clock"
	"ncip-portal/internal/pkg/logger"
	"ncip-portal/internal/repository/specification"
	"ncip-portal/internal/repository/unitofwork"
	"ncip-portal/pkg/lifecycle"
	"ncip-portal/pkg/utils"

	"github.com/google/uuid"
)

const (
	defaultPageSize      = 20
	maxPageSize          = 100
	applicationNumberTry = 5
	minCancelReasonLen   = 3
)

type IApplicationService interface {
	Create(ctx context.Context, caller entity.Caller, req *dto.CreateApplicationRequest) (*dto.ApplicationDetailResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID, q dto.ApplicationListQuery) (*dto.ApplicationListResponse, error)
	Get(ctx context.Context, caller entity.Caller, id uuid.UUID) (*dto.ApplicationDetailResponse, error)
	Cancel(ctx context.Context, caller entity.Caller, id uuid.UUID, req *dto.CancelApplicationRequest) (*dto.ApplicationResponse, error)

	// Admin
	AdminList(ctx context.Context, q dto.ApplicationListQuery) (*dto.ApplicationListResponse, error)
	Review(ctx context.Context, reviewerID, id uuid.UUID, req *dto.ReviewApplicationRequest) (*dto.ApplicationResponse, error)
	Complete(ctx context.Context, adminID, id uuid.UUID) (*dto.ApplicationResponse, error)
	Stats(ctx context.Context) (*dto.StatsResponse, error)
}

type applicationService struct {
	uowFactory          unitofwork.RepositoryFactory
	purposes            PurposeLookup
	ledger              *Ledger
	publisher           StatusPublisher
	clock               clock.Clock
	logger              logger.ILogger
	defaultDeadlineDays int
}

func NewApplicationService(
	uowFactory unitofwork.RepositoryFactory,
	purposes PurposeLookup,
	ledger *Ledger,
	publisher StatusPublisher,
	clk clock.Clock,
	logger logger.ILogger,
	defaultDeadlineDays int,
) IApplicationService {
	return &applicationService{
		uowFactory:          uowFactory,
		purposes:            purposes,
		ledger:              ledger,
		publisher:           publisher,
		clock:               clk,
		logger:              logger,
		defaultDeadlineDays: defaultDeadlineDays,
	}
}

func (s *applicationService) Create(ctx context.Context, caller entity.Caller, req *dto.CreateApplicationRequest) (*dto.ApplicationDetailResponse, error) {
	purpose, err := s.purposes.Lookup(ctx, req.PurposeId)
	if err != nil {
		return nil, err
	}
	if !purpose.IsActive {
		return nil, apperror.Validation("purpose %q is not accepting applications", purpose.Name)
	}

	now := s.clock.Now()
	deadlineDays := purpose.DeadlineDays
	if deadlineDays <= 0 {
		deadlineDays = s.defaultDeadlineDays
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	number, err := s.nextApplicationNumber(ctx, uow)
	if err != nil {
		return nil, err
	}

	app := &entity.Application{
		Id:                 uuid.New(),
		UserId:             caller.UserID,
		ApplicationNumber:  number,
		PurposeId:          purpose.Id,
		PurposeName:        purpose.Name,
		Status:             lifecycle.StatusSubmitted,
		SubmissionDeadline: lifecycle.DeadlineFrom(now, deadlineDays),
		FormData:           req.FormData,
		CreatedAt:          now,
		SubmittedAt:        &now,
		UpdatedAt:          now,
	}
	if err := uow.ApplicationRepository().Create(ctx, app); err != nil {
		return nil, err
	}

	requirements := purpose.ActiveRequirements()
	entries := make([]*entity.RequirementCompliance, 0, len(requirements))
	for _, r := range requirements {
		entries = append(entries, entity.NewMissingCompliance(app.Id, r, now))
	}
	if err := uow.ComplianceRepository().CreateBatch(ctx, entries); err != nil {
		return nil, fmt.Errorf("create compliance ledger: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("APPLICATION", "Application submitted", map[string]interface{}{
		"application_id":     app.Id.String(),
		"application_number": app.ApplicationNumber,
		"purpose":            app.PurposeName,
		"requirements":       len(entries),
	})
	s.publish(ctx, statusChanged(app, "", now))

	return &dto.ApplicationDetailResponse{
		ApplicationResponse: toApplicationResponse(app, now),
		Summary:             toSummary(entity.CountLedger(entries)),
		Compliance:          toComplianceResponses(entries),
		Documents:           []dto.DocumentResponse{},
	}, nil
}

func (s *applicationService) nextApplicationNumber(ctx context.Context, uow unitofwork.UnitOfWork) (string, error) {
	for i := 0; i < applicationNumberTry; i++ {
		number, err := utils.GenerateApplicationNumber(s.clock.Now())
		if err != nil {
			return "", apperror.Internal(err, "could not generate application number")
		}
		existing, err := uow.ApplicationRepository().FindOne(ctx, specification.Filter("application_number", number))
		if err != nil {
			return "", err
		}
		if existing == nil {
			return number, nil
		}
	}
	return "", apperror.Conflict("could not allocate a unique application number")
}

func (s *applicationService) ListMine(ctx context.Context, userID uuid.UUID, q dto.ApplicationListQuery) (*dto.ApplicationListResponse, error) {
	filters, err := listFilters(q)
	if err != nil {
		return nil, err
	}
	filters = append(filters, specification.UserOwnedBy{UserID: userID})
	return s.list(ctx, filters, q)
}

func (s *applicationService) AdminList(ctx context.Context, q dto.ApplicationListQuery) (*dto.ApplicationListResponse, error) {
	filters, err := listFilters(q)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, filters, q)
}

func listFilters(q dto.ApplicationListQuery) ([]specification.Specification, error) {
	var specs []specification.Specification
	if q.Status != "" {
		st, err := lifecycle.ParseStatus(q.Status)
		if err != nil {
			return nil, apperror.Validation("unknown status %q", q.Status)
		}
		specs = append(specs, specification.Filter("status", string(st)))
	}
	if q.PurposeId != "" {
		id, err := uuid.Parse(q.PurposeId)
		if err != nil {
			return nil, apperror.Validation("invalid purpose_id")
		}
		specs = append(specs, specification.ByPurposeID{PurposeID: id})
	}
	if strings.TrimSpace(q.Search) != "" {
		specs = append(specs, specification.ApplicationSearch{Term: q.Search})
	}
	return specs, nil
}

func (s *applicationService) list(ctx context.Context, filters []specification.Specification, q dto.ApplicationListQuery) (*dto.ApplicationListResponse, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.ApplicationRepository().Count(ctx, filters...)
	if err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}

	specs := append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: q.Offset},
	)
	apps, err := uow.ApplicationRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	now := s.clock.Now()
	items := make([]dto.ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		items = append(items, toApplicationResponse(a, now))
	}
	return &dto.ApplicationListResponse{Items: items, Total: total}, nil
}

func (s *applicationService) Get(ctx context.Context, caller entity.Caller, id uuid.UUID) (*dto.ApplicationDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	app, err := uow.ApplicationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if app == nil || !caller.CanAct(app.UserId) {
		return nil, apperror.NotFound("application %s not found", id)
	}

	entries, err := uow.ComplianceRepository().FindByApplication(ctx, app.Id)
	if err != nil {
		return nil, err
	}
	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.ByApplicationID{ApplicationID: app.Id},
		specification.OrderBy{Field: "uploaded_at"},
	)
	if err != nil {
		return nil, err
	}
	reviews, err := uow.ApplicationRepository().FindReviews(ctx, app.Id)
	if err != nil {
		return nil, err
	}

	documents := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		documents = append(documents, toDocumentResponse(d))
	}

	return &dto.ApplicationDetailResponse{
		ApplicationResponse: toApplicationResponse(app, s.clock.Now()),
		Summary:             toSummary(entity.CountLedger(entries)),
		Compliance:          toComplianceResponses(entries),
		Documents:           documents,
		History:             toReviewHistoryResponses(reviews),
	}, nil
}

// Cancel is the applicant's own withdrawal of an open application.
func (s *applicationService) Cancel(ctx context.Context, caller entity.Caller, id uuid.UUID, req *dto.CancelApplicationRequest) (*dto.ApplicationResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if len(reason) < minCancelReasonLen {
		return nil, apperror.Validation("cancellation reason must be at least %d characters", minCancelReasonLen)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	app, err := uow.ApplicationRepository().FindOneForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil || !caller.CanAct(app.UserId) {
		return nil, apperror.NotFound("application %s not found", id)
	}
	if app.Status.IsTerminal() {
		return nil, apperror.Conflict("application %s is already %s", app.ApplicationNumber, app.Status)
	}

	counts, err := s.ledger.Counts(ctx, uow.ComplianceRepository(), app.Id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	from := app.Status
	if err := app.Cancel(reason, now); err != nil {
		return nil, apperror.Conflict("%s", err.Error())
	}
	if err := uow.ApplicationRepository().Update(ctx, app); err != nil {
		return nil, err
	}

	err = uow.CancellationRepository().Create(ctx, &entity.CancellationLog{
		ApplicationID:         app.Id,
		UserID:                app.UserId,
		CancellationType:      entity.CancellationTypeManual,
		Reason:                *app.CancellationReason,
		TotalRequirements:     counts.Total,
		SubmittedRequirements: counts.Submitted,
		ApprovedRequirements:  counts.Approved,
		MissingRequirements:   counts.Missing,
		DaysPastDeadline:      lifecycle.DaysOverdue(app.SubmissionDeadline, now),
		CreatedAt:             now,
	})
	if err != nil {
		return nil, fmt.Errorf("append cancellation log: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("APPLICATION", "Application cancelled by applicant", map[string]interface{}{
		"application_id": app.Id.String(),
		"user_id":        caller.UserID.String(),
	})
	s.publish(ctx, statusChanged(app, from, now))

	res := toApplicationResponse(app, now)
	return &res, nil
}

// Review records an admin decision on the whole application.
func (s *applicationService) Review(ctx context.Context, reviewerID, id uuid.UUID, req *dto.ReviewApplicationRequest) (*dto.ApplicationResponse, error) {
	action := entity.ReviewAction(req.Action)
	target, ok := action.TargetStatus()
	if !ok {
		return nil, apperror.Validation("unknown review action %q", req.Action)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	app, err := uow.ApplicationRepository().FindOneForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, apperror.NotFound("application %s not found", id)
	}

	now := s.clock.Now()
	from := app.Status
	if err := app.MoveTo(target, now); err != nil {
		return nil, apperror.Conflict("%s", err.Error())
	}
	notes := stringPtr(strings.TrimSpace(req.Notes))
	app.ReviewedBy = &reviewerID
	app.ReviewNotes = notes
	app.ReviewedAt = &now

	if err := uow.ApplicationRepository().Update(ctx, app); err != nil {
		return nil, err
	}
	err = uow.ApplicationRepository().CreateReview(ctx, &entity.ReviewHistory{
		ApplicationId: app.Id,
		Action:        entity.ReviewKindApplication,
		Status:        string(action),
		Notes:         notes,
		ReviewedBy:    reviewerID,
		ReviewedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("append review history: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("REVIEW", "Application reviewed", map[string]interface{}{
		"application_id": app.Id.String(),
		"action":         string(action),
		"reviewer_id":    reviewerID.String(),
	})
	if from != app.Status {
		s.publish(ctx, statusChanged(app, from, now))
	}

	res := toApplicationResponse(app, now)
	return &res, nil
}

// Complete issues the certificate for an approved application.
func (s *applicationService) Complete(ctx context.Context, adminID, id uuid.UUID) (*dto.ApplicationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	app, err := uow.ApplicationRepository().FindOneForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, apperror.NotFound("application %s not found", id)
	}

	now := s.clock.Now()
	from := app.Status
	if err := app.MoveTo(lifecycle.StatusCertificateIssued, now); err != nil {
		return nil, apperror.Conflict("%s", err.Error())
	}
	number, err := utils.GenerateCertificateNumber(now)
	if err != nil {
		return nil, apperror.Internal(err, "could not generate certificate number")
	}
	app.CertificateNumber = &number
	app.CompletedAt = &now

	if err := uow.ApplicationRepository().Update(ctx, app); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("APPLICATION", "Certificate issued", map[string]interface{}{
		"application_id":     app.Id.String(),
		"certificate_number": number,
		"admin_id":           adminID.String(),
	})
	s.publish(ctx, statusChanged(app, from, now))

	res := toApplicationResponse(app, now)
	return &res, nil
}

func (s *applicationService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	byStatus, err := uow.ApplicationRepository().CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count applications by status: %w", err)
	}
	byReview, err := uow.DocumentRepository().CountByReviewStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count documents by review status: %w", err)
	}

	res := &dto.StatsResponse{
		Applications: make(map[string]int64),
		Documents:    make(map[string]int64),
	}
	for _, st := range lifecycle.AllStatuses() {
		res.Applications[string(st)] = byStatus[st]
		res.Total += byStatus[st]
	}
	for _, rs := range []entity.ReviewStatus{entity.ReviewStatusPending, entity.ReviewStatusApproved, entity.ReviewStatusRejected} {
		res.Documents[string(rs)] = byReview[rs]
	}
	return res, nil
}

func (s *applicationService) publish(ctx context.Context, msg dto.StatusChangedMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishStatusChanged(ctx, msg); err != nil {
		s.logger.Error("APPLICATION", "Failed to publish status change", map[string]interface{}{
			"application_id": msg.ApplicationId.String(),
			"to":             msg.To,
			"error":          err.Error(),
		})
	}
}
