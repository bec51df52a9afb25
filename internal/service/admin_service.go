package service

import (
	"context"
	"time"

	"ncip-portal/internal/dto"
	"ncip-portal/internal/pkg/logger"
	"ncip-portal/internal/repository/specification"
	"ncip-portal/internal/repository/unitofwork"
)

const (
	LogSourceApp  = "app"
	LogSourceJobs = "jobs"
)

// zap's ISO8601 encoder layout
const zapTimeLayout = "2006-01-02T15:04:05.000Z0700"

type IAdminService interface {
	ListCancellations(ctx context.Context, q dto.CancellationListQuery) ([]dto.CancellationLogResponse, error)
	GetSystemLogs(ctx context.Context, q dto.LogQuery) ([]dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, source, id string) (*dto.LogDetailResponse, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	appLogs    logger.ILogger
	jobLogs    logger.ILogger
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, appLogs, jobLogs logger.ILogger) IAdminService {
	return &adminService{
		uowFactory: uowFactory,
		appLogs:    appLogs,
		jobLogs:    jobLogs,
	}
}

func (s *adminService) ListCancellations(ctx context.Context, q dto.CancellationListQuery) ([]dto.CancellationLogResponse, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	specs := []specification.Specification{}
	if q.Type != "" {
		specs = append(specs, specification.Filter("cancellation_type", q.Type))
	}
	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: q.Offset},
	)

	logs, err := s.uowFactory.NewUnitOfWork(ctx).CancellationRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]dto.CancellationLogResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, dto.CancellationLogResponse{
			Id:                    l.ID,
			ApplicationId:         l.ApplicationID,
			UserId:                l.UserID,
			CancellationType:      string(l.CancellationType),
			Reason:                l.Reason,
			TotalRequirements:     l.TotalRequirements,
			SubmittedRequirements: l.SubmittedRequirements,
			ApprovedRequirements:  l.ApprovedRequirements,
			MissingRequirements:   l.MissingRequirements,
			DaysPastDeadline:      l.DaysPastDeadline,
			CreatedAt:             l.CreatedAt,
		})
	}
	return res, nil
}

func (s *adminService) source(name string) logger.ILogger {
	if name == LogSourceJobs {
		return s.jobLogs
	}
	return s.appLogs
}

func (s *adminService) GetSystemLogs(ctx context.Context, q dto.LogQuery) ([]dto.LogListResponse, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	entries, err := s.source(q.Source).GetLogs(q.Level, limit, q.Offset)
	if err != nil {
		return nil, err
	}

	res := make([]dto.LogListResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, toLogListResponse(e))
	}
	return res, nil
}

func (s *adminService) GetLogDetail(ctx context.Context, source, id string) (*dto.LogDetailResponse, error) {
	entry, err := s.source(source).GetLogById(id)
	if err != nil {
		return nil, err
	}
	return &dto.LogDetailResponse{
		LogListResponse: toLogListResponse(*entry),
		Details:         entry.Details,
	}, nil
}

func toLogListResponse(e logger.LogEntry) dto.LogListResponse {
	ts, _ := time.Parse(zapTimeLayout, e.Timestamp)
	return dto.LogListResponse{
		Id:        e.Id,
		Level:     e.Level,
		Module:    e.Module,
		Message:   e.Message,
		CreatedAt: ts,
	}
}
