package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ncip-portal/internal/entity"
	"ncip-portal/internal/pkg/apperror"
	"ncip-portal/internal/repository/specification"
	"ncip-portal/pkg/lifecycle"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expectedRace accepts the errors a caller may legitimately see when another
// request got to the application first.
func expectedRace(err error) bool {
	return err == nil || errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrConflict)
}

func (h *harness) currentDocument(appID, reqID uuid.UUID) *entity.UploadedDocument {
	h.t.Helper()
	doc, err := h.uow.NewUnitOfWork(context.Background()).DocumentRepository().FindOne(context.Background(),
		specification.ByApplicationID{ApplicationID: appID},
		specification.ByRequirementID{RequirementID: reqID},
	)
	require.NoError(h.t, err)
	return doc
}

// assertLedgerMatchesDocuments checks that the ledger row and the stored
// status agree with the documents that actually exist.
func (h *harness) assertLedgerMatchesDocuments(appID uuid.UUID, reqIDs []uuid.UUID) {
	h.t.Helper()
	docs, err := h.uow.NewUnitOfWork(context.Background()).DocumentRepository().FindAll(context.Background(),
		specification.ByApplicationID{ApplicationID: appID},
	)
	require.NoError(h.t, err)

	perReq := map[uuid.UUID]int{}
	for _, d := range docs {
		perReq[d.RequirementId]++
		assert.True(h.t, h.store.Exists(d.StoragePath), "file of document %s", d.Id)
	}

	for _, reqID := range reqIDs {
		assert.LessOrEqual(h.t, perReq[reqID], 1, "one current document per requirement")
		entry := h.ledgerEntry(appID, reqID)
		doc := h.currentDocument(appID, reqID)
		if doc == nil {
			assert.False(h.t, entry.IsSubmitted)
			assert.True(h.t, entry.IsMissing)
			continue
		}
		assert.True(h.t, entry.IsSubmitted)
		assert.False(h.t, entry.IsMissing)
		assert.Equal(h.t, doc.ReviewStatus == entity.ReviewStatusApproved, entry.IsApproved)
	}

	app := h.application(appID)
	counts, err := NewLedger().Counts(context.Background(), h.uow.NewUnitOfWork(context.Background()).ComplianceRepository(), appID)
	require.NoError(h.t, err)
	_, changed := lifecycle.Derive(app.Status, counts)
	assert.False(h.t, changed, "status %s is stale for %+v", app.Status, counts)
}

func TestConcurrentIntakeAndReviewKeepLedgerConsistent(t *testing.T) {
	h := newHarness(t)
	p := h.newPurpose("Scholarship Application", 2)
	app := h.apply(p.Id)
	reqID := p.Requirements[0].Id
	h.upload(app.Id, reqID)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	run := func(n int, op func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < n; i++ {
				errs <- op()
			}
		}()
	}

	for w := 0; w < 3; w++ {
		run(3, func() error {
			_, err := h.docs.Upload(ctx, h.applicant, app.Id, reqID, pdfFile("scan.pdf"))
			return err
		})
	}
	for w := 0; w < 2; w++ {
		run(3, func() error {
			doc := h.currentDocument(app.Id, reqID)
			if doc == nil {
				return nil
			}
			_, err := h.docs.Withdraw(ctx, h.applicant, doc.Id)
			return err
		})
		run(3, func() error {
			doc := h.currentDocument(app.Id, reqID)
			if doc == nil {
				return nil
			}
			_, err := h.docs.Review(ctx, doc.Id, entity.DecisionApproved, h.admin, "")
			return err
		})
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.True(t, expectedRace(err), "unexpected error: %v", err)
	}
	h.assertLedgerMatchesDocuments(app.Id, []uuid.UUID{reqID, p.Requirements[1].Id})
}

func TestConcurrentSweepCancelsOnceAndStopsIntake(t *testing.T) {
	h := newHarness(t)
	p := h.newPurpose("Educational Assistance", 2)
	app := h.apply(p.Id)
	reqID := p.Requirements[0].Id
	h.upload(app.Id, reqID)
	h.clock.Set(testStart.Add(days(31)))
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	cancelled := make(chan int, 4)

	for w := 0; w < 2; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := h.sweep.AutoCancel(ctx)
			if err != nil {
				errs <- err
				return
			}
			if len(res.Failures) > 0 {
				errs <- errors.New(res.Failures[0].Error)
			}
			cancelled <- res.Cancelled
		}()
	}
	for w := 0; w < 2; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 3; i++ {
				_, err := h.docs.Upload(ctx, h.applicant, app.Id, reqID, pdfFile("scan.pdf"))
				errs <- err
				if doc := h.currentDocument(app.Id, reqID); doc != nil {
					_, err = h.docs.Review(ctx, doc.Id, entity.DecisionApproved, h.admin, "")
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	close(cancelled)

	for err := range errs {
		assert.True(t, expectedRace(err), "unexpected error: %v", err)
	}
	total := 0
	for n := range cancelled {
		total += n
	}
	assert.Equal(t, 1, total, "exactly one sweep cancels the application")

	stored := h.application(app.Id)
	assert.True(t, stored.IsCancelled)
	assert.Equal(t, lifecycle.StatusCancelled, stored.Status)
	assert.Len(t, h.cancellations(app.Id), 1)

	_, err := h.docs.Upload(ctx, h.applicant, app.Id, reqID, pdfFile("late.pdf"))
	assert.ErrorIs(t, err, apperror.ErrConflict)
	h.assertLedgerMatchesDocuments(app.Id, []uuid.UUID{reqID, p.Requirements[1].Id})
}
