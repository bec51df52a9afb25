package service

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sync"
	"testing"

	"ncip-portal/internal/entity"
	"ncip-portal/internal/pkg/apperror"
	"ncip-portal/internal/pkg/logger"
	"ncip-portal/internal/repository/contract"
	"ncip-portal/internal/repository/specification"
	"ncip-portal/internal/repository/unitofwork"
	"ncip-portal/pkg/lifecycle"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected write failure")

// faultHooks intercept individual repository calls. Nil hooks pass through.
type faultHooks struct {
	mu                 sync.Mutex
	applicationUpdate  func(*entity.Application) error
	reviewCreate       func(*entity.ReviewHistory) error
	cancellationCreate func(*entity.CancellationLog) error
	// documentLookup runs once, after the first successful document read.
	documentLookup func(*entity.UploadedDocument)
}

func (h *faultHooks) takeDocumentLookup() func(*entity.UploadedDocument) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn := h.documentLookup
	h.documentLookup = nil
	return fn
}

type faultyFactory struct {
	inner unitofwork.RepositoryFactory
	hooks *faultHooks
}

func (f *faultyFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &faultyUnitOfWork{UnitOfWork: f.inner.NewUnitOfWork(ctx), hooks: f.hooks}
}

type faultyUnitOfWork struct {
	unitofwork.UnitOfWork
	hooks *faultHooks
}

func (u *faultyUnitOfWork) ApplicationRepository() contract.ApplicationRepository {
	return &faultyApplications{ApplicationRepository: u.UnitOfWork.ApplicationRepository(), hooks: u.hooks}
}

func (u *faultyUnitOfWork) DocumentRepository() contract.DocumentRepository {
	return &faultyDocuments{DocumentRepository: u.UnitOfWork.DocumentRepository(), hooks: u.hooks}
}

func (u *faultyUnitOfWork) CancellationRepository() contract.CancellationRepository {
	return &faultyCancellations{CancellationRepository: u.UnitOfWork.CancellationRepository(), hooks: u.hooks}
}

type faultyApplications struct {
	contract.ApplicationRepository
	hooks *faultHooks
}

func (r *faultyApplications) Update(ctx context.Context, app *entity.Application) error {
	if fn := r.hooks.applicationUpdate; fn != nil {
		if err := fn(app); err != nil {
			return err
		}
	}
	return r.ApplicationRepository.Update(ctx, app)
}

func (r *faultyApplications) CreateReview(ctx context.Context, review *entity.ReviewHistory) error {
	if fn := r.hooks.reviewCreate; fn != nil {
		if err := fn(review); err != nil {
			return err
		}
	}
	return r.ApplicationRepository.CreateReview(ctx, review)
}

type faultyDocuments struct {
	contract.DocumentRepository
	hooks *faultHooks
}

func (r *faultyDocuments) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UploadedDocument, error) {
	doc, err := r.DocumentRepository.FindOne(ctx, specs...)
	if err == nil && doc != nil {
		if fn := r.hooks.takeDocumentLookup(); fn != nil {
			fn(doc)
		}
	}
	return doc, err
}

type faultyCancellations struct {
	contract.CancellationRepository
	hooks *faultHooks
}

func (r *faultyCancellations) Create(ctx context.Context, log *entity.CancellationLog) error {
	if fn := r.hooks.cancellationCreate; fn != nil {
		if err := fn(log); err != nil {
			return err
		}
	}
	return r.CancellationRepository.Create(ctx, log)
}

// faulty builds document and sweep services over the harness database whose
// repositories run the returned hooks.
func (h *harness) faulty() (*faultHooks, IDocumentService, ISweepService) {
	hooks := &faultHooks{}
	f := &faultyFactory{inner: h.uow, hooks: hooks}
	log := logger.NewNop()
	docs := NewDocumentService(f, h.purposes, NewLedger(), h.store, h.events, h.clock, log, testMaxUpload)
	return hooks, docs, NewSweepService(f, h.clock, log)
}

func (h *harness) document(id uuid.UUID) *entity.UploadedDocument {
	h.t.Helper()
	doc, err := h.uow.NewUnitOfWork(context.Background()).DocumentRepository().FindOne(context.Background(), specification.ByID{ID: id})
	require.NoError(h.t, err)
	return doc
}

func (h *harness) storedFiles() int {
	h.t.Helper()
	n := 0
	err := filepath.WalkDir(h.store.DataDir(), func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			n++
		}
		return nil
	})
	require.NoError(h.t, err)
	return n
}

func TestWithdrawOfSupersededDocumentIsNotFound(t *testing.T) {
	h := newHarness(t)
	p := h.newPurpose("Scholarship Application", 2)
	app := h.apply(p.Id)
	reqID := p.Requirements[0].Id
	first := h.upload(app.Id, reqID)
	before := h.application(app.Id).Status

	hooks, docs, _ := h.faulty()
	var replacement uuid.UUID
	hooks.documentLookup = func(*entity.UploadedDocument) {
		replacement = h.upload(app.Id, reqID).Document.Id
	}

	_, err := docs.Withdraw(context.Background(), h.applicant, first.Document.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	require.NotEqual(t, uuid.Nil, replacement)
	assert.Equal(t, 1, h.documentCount(app.Id))
	assert.True(t, h.store.Exists(h.storagePath(replacement)))

	entry := h.ledgerEntry(app.Id, reqID)
	assert.True(t, entry.IsSubmitted)
	assert.False(t, entry.IsMissing)
	assert.Equal(t, before, h.application(app.Id).Status)
}

func TestReviewOfSupersededDocumentIsNotFound(t *testing.T) {
	h := newHarness(t)
	p := h.newPurpose("Scholarship Application", 1)
	app := h.apply(p.Id)
	reqID := p.Requirements[0].Id
	first := h.upload(app.Id, reqID)

	hooks, docs, _ := h.faulty()
	var replacement uuid.UUID
	hooks.documentLookup = func(*entity.UploadedDocument) {
		replacement = h.upload(app.Id, reqID).Document.Id
	}

	_, err := docs.Review(context.Background(), first.Document.Id, entity.DecisionApproved, h.admin, "")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	doc := h.document(replacement)
	require.NotNil(t, doc)
	assert.Equal(t, entity.ReviewStatusPending, doc.ReviewStatus)
	assert.False(t, h.ledgerEntry(app.Id, reqID).IsApproved)
	assert.NotEqual(t, lifecycle.StatusApproved, h.application(app.Id).Status)
}

func TestReviewRollsBackWhenHistoryWriteFails(t *testing.T) {
	h := newHarness(t)
	p := h.newPurpose("Employment", 1)
	app := h.apply(p.Id)
	reqID := p.Requirements[0].Id
	up := h.upload(app.Id, reqID)
	before := h.application(app.Id)
	published := len(h.events.transitions())

	hooks, docs, _ := h.faulty()
	hooks.reviewCreate = func(*entity.ReviewHistory) error { return errInjected }

	_, err := docs.Review(context.Background(), up.Document.Id, entity.DecisionApproved, h.admin, "looks good")
	require.ErrorIs(t, err, errInjected)

	doc := h.document(up.Document.Id)
	require.NotNil(t, doc)
	assert.Equal(t, entity.ReviewStatusPending, doc.ReviewStatus)
	assert.Nil(t, doc.ReviewedBy)

	entry := h.ledgerEntry(app.Id, reqID)
	assert.False(t, entry.IsApproved)
	assert.Nil(t, entry.ApprovalDate)

	after := h.application(app.Id)
	assert.Equal(t, before.Status, after.Status)
	assert.Nil(t, after.ReviewedBy)

	reviews, err := h.uow.NewUnitOfWork(context.Background()).ApplicationRepository().FindReviews(context.Background(), app.Id)
	require.NoError(t, err)
	assert.Empty(t, reviews)
	assert.Len(t, h.events.transitions(), published)
}

func TestUploadRollsBackWhenStatusWriteFails(t *testing.T) {
	h := newHarness(t)
	p := h.newPurpose("Employment", 2)
	app := h.apply(p.Id)
	reqID := p.Requirements[0].Id
	first := h.upload(app.Id, reqID)
	oldPath := h.storagePath(first.Document.Id)
	oldEntry := h.ledgerEntry(app.Id, reqID)
	before := h.application(app.Id).Status
	require.Equal(t, 1, h.storedFiles())

	hooks, docs, _ := h.faulty()
	hooks.applicationUpdate = func(*entity.Application) error { return errInjected }

	_, err := docs.Upload(context.Background(), h.applicant, app.Id, reqID, pdfFile("rescan.pdf"))
	require.ErrorIs(t, err, errInjected)

	assert.Equal(t, 1, h.documentCount(app.Id))
	assert.Equal(t, oldPath, h.storagePath(first.Document.Id), "superseded document is restored")
	assert.True(t, h.store.Exists(oldPath))
	assert.Equal(t, 1, h.storedFiles(), "the new file is removed")

	entry := h.ledgerEntry(app.Id, reqID)
	assert.True(t, entry.IsSubmitted)
	require.NotNil(t, entry.SubmissionDate)
	assert.True(t, oldEntry.SubmissionDate.Equal(*entry.SubmissionDate))
	assert.Equal(t, before, h.application(app.Id).Status)
}

func TestAutoCancelContinuesPastFailingApplication(t *testing.T) {
	h := newHarness(t)
	p := h.newPurpose("Educational Assistance", 2)
	failing := h.apply(p.Id)
	h.upload(failing.Id, p.Requirements[0].Id)
	healthy := h.apply(p.Id)
	h.upload(healthy.Id, p.Requirements[0].Id)

	hooks, _, sweep := h.faulty()
	hooks.cancellationCreate = func(log *entity.CancellationLog) error {
		if log.ApplicationID == failing.Id {
			return errInjected
		}
		return nil
	}

	h.clock.Set(testStart.Add(days(31)))
	res, err := sweep.AutoCancel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Candidates)
	assert.Equal(t, 1, res.Cancelled)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, failing.Id, res.Failures[0].ApplicationId)
	assert.Contains(t, res.Failures[0].Error, errInjected.Error())

	stored := h.application(failing.Id)
	assert.False(t, stored.IsCancelled, "failed cancellation is rolled back")
	assert.NotEqual(t, lifecycle.StatusCancelled, stored.Status)
	assert.Nil(t, stored.CancellationReason)
	assert.Empty(t, h.cancellations(failing.Id))

	assert.True(t, h.application(healthy.Id).IsCancelled)
	assert.Len(t, h.cancellations(healthy.Id), 1)

	notes := h.notifications(h.applicant.UserID)
	require.Len(t, notes, 1)
	require.NotNil(t, notes[0].ApplicationId)
	assert.Equal(t, healthy.Id, *notes[0].ApplicationId)
}
