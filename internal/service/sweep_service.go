package service

import (
	"context"
	"fmt"
	"time"

	"ncip-portal/internal/dto"
	"ncip-portal/internal/entity"
	"ncip-portal/internal/pkg/clock"
	"ncip-portal/internal/pkg/logger"
	"ncip-portal/internal/repository/specification"
	"ncip-portal/internal/repository/unitofwork"
	"ncip-portal/pkg/lifecycle"
	"ncip-portal/pkg/metrics"

	"github.com/google/uuid"
)

// sweepStatuses are the statuses the deadline jobs look at. Documents that
// were rejected or changes requested are waiting on the admin cycle, not on
// the submission deadline.
var sweepStatuses = []lifecycle.Status{lifecycle.StatusSubmitted, lifecycle.StatusUnderReview}

type ISweepService interface {
	AutoCancel(ctx context.Context) (*dto.AutoCancelResult, error)
	SendDeadlineWarnings(ctx context.Context, leadDays []int) (*dto.DeadlineWarningResult, error)
}

type sweepService struct {
	uowFactory unitofwork.RepositoryFactory
	clock      clock.Clock
	logger     logger.ILogger
}

func NewSweepService(uowFactory unitofwork.RepositoryFactory, clk clock.Clock, logger logger.ILogger) ISweepService {
	return &sweepService{
		uowFactory: uowFactory,
		clock:      clk,
		logger:     logger,
	}
}

func (s *sweepService) AutoCancel(ctx context.Context) (*dto.AutoCancelResult, error) {
	candidates, err := s.uowFactory.NewUnitOfWork(ctx).ApplicationRepository().FindSweepCandidates(ctx, sweepStatuses)
	if err != nil {
		return nil, fmt.Errorf("read auto-cancel candidates: %w", err)
	}

	res := &dto.AutoCancelResult{Candidates: len(candidates)}
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		cancelled, err := s.cancelOne(ctx, c.ApplicationId)
		if err != nil {
			res.Failures = append(res.Failures, dto.SweepFailure{ApplicationId: c.ApplicationId, Error: err.Error()})
			s.logger.Error("SWEEP", "Auto-cancel failed", map[string]interface{}{
				"application_id": c.ApplicationId.String(),
				"error":          err.Error(),
			})
			continue
		}
		if cancelled {
			res.Cancelled++
			metrics.ApplicationsCancelledTotal.Inc()
		} else {
			res.Skipped++
		}
	}

	s.logger.Info("SWEEP", "Auto-cancel finished", map[string]interface{}{
		"candidates": res.Candidates,
		"cancelled":  res.Cancelled,
		"skipped":    res.Skipped,
		"failed":     len(res.Failures),
	})
	return res, nil
}

// cancelOne re-reads the application under its row lock and cancels it if
// it is still overdue with missing requirements. false means the
// application no longer qualifies.
func (s *sweepService) cancelOne(ctx context.Context, appID uuid.UUID) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer uow.Rollback()

	app, err := uow.ApplicationRepository().FindOneForUpdate(ctx, appID)
	if err != nil {
		return false, err
	}
	now := s.clock.Now()
	if app == nil || app.IsCancelled || !app.Status.SweepEligible() || !lifecycle.IsOverdue(app.SubmissionDeadline, now) {
		return false, nil
	}

	entries, err := uow.ComplianceRepository().FindByApplication(ctx, app.Id)
	if err != nil {
		return false, err
	}
	counts := entity.CountLedger(entries)
	if counts.Missing == 0 {
		return false, nil
	}

	if err := app.Cancel(autoCancelReason(counts.Missing, app.SubmissionDeadline), now); err != nil {
		return false, err
	}
	if err := uow.ApplicationRepository().Update(ctx, app); err != nil {
		return false, err
	}

	err = uow.CancellationRepository().Create(ctx, &entity.CancellationLog{
		ApplicationID:         app.Id,
		UserID:                app.UserId,
		CancellationType:      entity.CancellationTypeAutomatic,
		Reason:                autoCancelLogReason(counts.Missing),
		TotalRequirements:     counts.Total,
		SubmittedRequirements: counts.Submitted,
		ApprovedRequirements:  counts.Approved,
		MissingRequirements:   counts.Missing,
		DaysPastDeadline:      lifecycle.DaysOverdue(app.SubmissionDeadline, now),
		CreatedAt:             now,
	})
	if err != nil {
		return false, fmt.Errorf("write cancellation log: %w", err)
	}

	content := autoCancelNotification(app.ApplicationNumber, app.PurposeName, counts.Missing)
	if err := uow.NotificationRepository().Enqueue(ctx, &entity.NotificationQueueEntry{
		UserId:        app.UserId,
		ApplicationId: &app.Id,
		Type:          entity.NotificationApplicationCancelled,
		Title:         content.Title,
		Message:       content.Message,
		Priority:      content.Priority,
		Metadata: map[string]interface{}{
			"application_number": app.ApplicationNumber,
			"missing":            counts.Missing,
			"deadline":           app.SubmissionDeadline.Format("2006-01-02"),
		},
		CreatedAt: now,
	}); err != nil {
		return false, fmt.Errorf("enqueue cancellation notice: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return false, err
	}

	s.logger.Info("SWEEP", "Application auto-cancelled", map[string]interface{}{
		"application_id":     app.Id.String(),
		"application_number": app.ApplicationNumber,
		"missing":            counts.Missing,
	})
	return true, nil
}

// SendDeadlineWarnings enqueues one warning per qualifying application.
// Running it twice on the same day warns twice.
func (s *sweepService) SendDeadlineWarnings(ctx context.Context, leadDays []int) (*dto.DeadlineWarningResult, error) {
	if len(leadDays) == 0 {
		leadDays = lifecycle.DefaultLeadDays
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	candidates, err := uow.ApplicationRepository().FindSweepCandidates(ctx, sweepStatuses)
	if err != nil {
		return nil, fmt.Errorf("read deadline warning candidates: %w", err)
	}

	res := &dto.DeadlineWarningResult{ByBucket: map[string]int{}}
	now := s.clock.Now()
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Checked++

		app, err := uow.ApplicationRepository().FindOne(ctx, specification.ByID{ID: c.ApplicationId})
		if err != nil || app == nil {
			if err == nil {
				err = fmt.Errorf("application disappeared")
			}
			res.Failures = append(res.Failures, dto.SweepFailure{ApplicationId: c.ApplicationId, Error: err.Error()})
			continue
		}

		days := app.DaysRemaining(now)
		bucket, priority, ok := lifecycle.WarningFor(days, leadDays)
		if !ok {
			continue
		}

		if err := s.warn(ctx, uow, app, c.Counts.Missing, days, bucket, priority, now); err != nil {
			res.Failures = append(res.Failures, dto.SweepFailure{ApplicationId: app.Id, Error: err.Error()})
			s.logger.Error("SWEEP", "Deadline warning failed", map[string]interface{}{
				"application_id": app.Id.String(),
				"error":          err.Error(),
			})
			continue
		}
		res.Sent++
		res.ByBucket[string(bucket)]++
		metrics.DeadlineWarningsTotal.WithLabelValues(string(bucket)).Inc()
	}

	s.logger.Info("SWEEP", "Deadline warnings finished", map[string]interface{}{
		"checked":   res.Checked,
		"sent":      res.Sent,
		"by_bucket": res.ByBucket,
		"failed":    len(res.Failures),
	})
	return res, nil
}

func (s *sweepService) warn(ctx context.Context, uow unitofwork.UnitOfWork, app *entity.Application, missing, days int, bucket lifecycle.WarningBucket, priority lifecycle.Priority, now time.Time) error {
	content := deadlineWarningNotification(app.ApplicationNumber, days, missing, priority)
	return uow.NotificationRepository().Enqueue(ctx, &entity.NotificationQueueEntry{
		UserId:        app.UserId,
		ApplicationId: &app.Id,
		Type:          string(bucket),
		Title:         content.Title,
		Message:       content.Message,
		Priority:      content.Priority,
		Metadata: map[string]interface{}{
			"application_number": app.ApplicationNumber,
			"days_remaining":     days,
			"missing":            missing,
		},
		CreatedAt: now,
	})
}
