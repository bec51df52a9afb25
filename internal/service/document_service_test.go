package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"ncip-portal/internal/entity"
	"ncip-portal/internal/pkg/apperror"
	"ncip-portal/internal/pkg/filestore"
	"ncip-portal/internal/pkg/logger"
	"ncip-portal/pkg/lifecycle"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStore struct{}

func (brokenStore) Save(io.Reader, string, string) (*filestore.SaveResult, error) {
	return nil, errors.New("disk full")
}

func (brokenStore) Open(string) (*os.File, error) { return nil, os.ErrNotExist }
func (brokenStore) Delete(string) error          { return nil }

func TestUploadMarksRequirementSubmitted(t *testing.T) {
	h := newHarness(t)
	p := h.newPurpose("Scholarship Application", 2)
	app := h.apply(p.Id)
	reqID := p.Requirements[0].Id

	res := h.upload(app.Id, reqID)

	assert.Equal(t, string(lifecycle.StatusUnderReview), res.ApplicationStatus)
	assert.Equal(t, string(entity.ReviewStatusPending), res.Document.ReviewStatus)
	assert.NotEmpty(t, res.Document.Checksum)
	assert.True(t, h.store.Exists(h.storagePath(res.Document.Id)))

	entry := h.ledgerEntry(app.Id, reqID)
	assert.True(t, entry.IsSubmitted)
	assert.False(t, entry.IsMissing)
	assert.Equal(t, entity.ComplianceStatusPending, entry.Status)
	require.NotNil(t, entry.SubmissionDate)

	other := h.ledgerEntry(app.Id, p.Requirements[1].Id)
	assert.True(t, other.IsMissing)

	assert.Equal(t, []string{"->submitted", "submitted->under_review"}, h.events.transitions())
}

func TestUploadSupersedesPreviousDocument(t *testing.T) {
	h := newHarness(t)
	p := h.newPurpose("Employment", 1)
	app := h.apply(p.Id)
	reqID := p.Requirements[0].Id

	first := h.upload(app.Id, reqID)
	oldPath := h.storagePath(first.Document.Id)
	second := h.upload(app.Id, reqID)

	assert.NotEqual(t, first.Document.Id, second.Document.Id)
	assert.Equal(t, 1, h.documentCount(app.Id))
	assert.False(t, h.store.Exists(oldPath), "superseded file is removed")
	assert.True(t, h.store.Exists(h.storagePath(second.Document.Id)))

	entry := h.ledgerEntry(app.Id, reqID)
	assert.True(t, entry.IsSubmitted)
	assert.Equal(t, entity.ComplianceStatusPending, entry.Status)
}

func TestUploadValidation(t *testing.T) {
	h := newHarness(t)
	p := h.newPurpose("Business Permit", 1)
	app := h.apply(p.Id)
	reqID := p.Requirements[0].Id
	ctx := context.Background()

	exe := entity.UploadFile{Filename: "setup.exe", MimeType: "application/x-msdownload", Size: 4, Content: bytes.NewReader([]byte("MZ.."))}
	_, err := h.docs.Upload(ctx, h.applicant, app.Id, reqID, exe)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	renamed := pdfFile("scan.docx")
	_, err = h.docs.Upload(ctx, h.applicant, app.Id, reqID, renamed)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	empty := entity.UploadFile{Filename: "scan.pdf", MimeType: "application/pdf", Content: bytes.NewReader(nil)}
	_, err = h.docs.Upload(ctx, h.applicant, app.Id, reqID, empty)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	huge := pdfFile("scan.pdf")
	huge.Size = testMaxUpload + 1
	_, err = h.docs.Upload(ctx, h.applicant, app.Id, reqID, huge)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = h.docs.Upload(ctx, h.applicant, app.Id, uuid.New(), pdfFile("scan.pdf"))
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = h.docs.Upload(ctx, entity.Caller{UserID: uuid.New()}, app.Id, reqID, pdfFile("scan.pdf"))
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	assert.Equal(t, 0, h.documentCount(app.Id))
	assert.True(t, h.ledgerEntry(app.Id, reqID).IsMissing)
}

func TestUploadStoreFailureLeavesLedgerUntouched(t *testing.T) {
	h := newHarness(t)
	p := h.newPurpose("Housing Assistance", 1)
	app := h.apply(p.Id)
	reqID := p.Requirements[0].Id

	docs := NewDocumentService(h.uow, h.purposes, NewLedger(), brokenStore{}, h.events, h.clock, logger.NewNop(), testMaxUpload)
	_, err := docs.Upload(context.Background(), h.applicant, app.Id, reqID, pdfFile("scan.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrIO)

	assert.Equal(t, 0, h.documentCount(app.Id))
	assert.True(t, h.ledgerEntry(app.Id, reqID).IsMissing)
	assert.Equal(t, lifecycle.StatusSubmitted, h.application(app.Id).Status)
}

func TestUploadToCancelledApplicationConflicts(t *testing.T) {
	h := newHarness(t)
	p := h.newPurpose("PWD Benefits", 1)
	app := h.apply(p.Id)
	_, err := h.apps.Cancel(context.Background(), h.applicant, app.Id, &cancelReq)
	require.NoError(t, err)

	_, err = h.docs.Upload(context.Background(), h.applicant, app.Id, p.Requirements[0].Id, pdfFile("scan.pdf"))
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, 0, h.documentCount(app.Id))
}

func TestReviewAllApprovedApprovesApplication(t *testing.T) {
	h := newHarness(t)
	p := h.newPurpose("Educational Assistance", 3)
	app := h.apply(p.Id)

	var docIDs []uuid.UUID
	for _, r := range p.Requirements {
		docIDs = append(docIDs, h.upload(app.Id, r.Id).Document.Id)
	}

	for i, id := range docIDs[:2] {
		res := h.review(id, entity.DecisionApproved)
		assert.Equal(t, string(lifecycle.StatusUnderReview), res.ApplicationStatus, "review %d", i)
		assert.False(t, res.FullyApproved)
	}

	res := h.review(docIDs[2], entity.DecisionApproved)
	assert.Equal(t, string(lifecycle.StatusApproved), res.ApplicationStatus)
	assert.True(t, res.FullyApproved)
	assert.Equal(t, lifecycle.StatusApproved, h.application(app.Id).Status)

	for _, r := range p.Requirements {
		entry := h.ledgerEntry(app.Id, r.Id)
		assert.True(t, entry.IsApproved)
		assert.NotNil(t, entry.ApprovalDate)
	}

	detail, err := h.apps.Get(context.Background(), h.applicant, app.Id)
	require.NoError(t, err)
	assert.Len(t, detail.History, 3)

	_, err = h.docs.Upload(context.Background(), h.applicant, app.Id, p.Requirements[0].Id, pdfFile("late.pdf"))
	assert.ErrorIs(t, err, apperror.ErrConflict, "approved applications no longer take documents")
}

func TestRejectionTakesPrecedence(t *testing.T) {
	h := newHarness(t)
	p := h.newPurpose("Indigenous Peoples Certification", 5)
	app := h.apply(p.Id)

	var docIDs []uuid.UUID
	for _, r := range p.Requirements[:4] {
		docIDs = append(docIDs, h.upload(app.Id, r.Id).Document.Id)
	}
	assert.Equal(t, lifecycle.StatusUnderReview, h.application(app.Id).Status)

	for _, id := range docIDs[:3] {
		h.review(id, entity.DecisionApproved)
	}
	res := h.review(docIDs[3], entity.DecisionRejected)

	assert.Equal(t, string(lifecycle.StatusDocumentsRejected), res.ApplicationStatus)
	assert.False(t, res.FullyApproved)

	detail, err := h.apps.Get(context.Background(), h.applicant, app.Id)
	require.NoError(t, err)
	assert.Equal(t, 5, detail.Summary.Total)
	assert.Equal(t, 3, detail.Summary.Approved)
	assert.Equal(t, 1, detail.Summary.Rejected)
	assert.Equal(t, 1, detail.Summary.Missing)
	assert.Equal(t, 4, detail.Summary.Submitted)

	// A corrected file puts the requirement back into review.
	h.upload(app.Id, p.Requirements[3].Id)
	entry := h.ledgerEntry(app.Id, p.Requirements[3].Id)
	assert.Equal(t, entity.ComplianceStatusPending, entry.Status)
	assert.True(t, entry.IsSubmitted)
	assert.False(t, entry.IsApproved)
	assert.Equal(t, lifecycle.StatusUnderReview, h.application(app.Id).Status)
}

func TestAllSubmittedNoneReviewedIsUnderReview(t *testing.T) {
	h := newHarness(t)
	p := h.newPurpose("Land Title Application", 5)
	app := h.apply(p.Id)
	for _, r := range p.Requirements {
		h.upload(app.Id, r.Id)
	}

	assert.Equal(t, lifecycle.StatusUnderReview, h.application(app.Id).Status)
	full, err := NewLedger().IsFullySubmitted(context.Background(), h.uow.NewUnitOfWork(context.Background()).ComplianceRepository(), app.Id)
	require.NoError(t, err)
	assert.True(t, full)
}

func TestReviewValidation(t *testing.T) {
	h := newHarness(t)
	p := h.newPurpose("Senior Citizen Benefits", 1)
	app := h.apply(p.Id)
	doc := h.upload(app.Id, p.Requirements[0].Id)
	ctx := context.Background()

	_, err := h.docs.Review(ctx, doc.Document.Id, entity.ReviewDecision("maybe"), h.admin, "")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = h.docs.Review(ctx, uuid.New(), entity.DecisionApproved, h.admin, "")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = h.apps.Cancel(ctx, h.applicant, app.Id, &cancelReq)
	require.NoError(t, err)
	_, err = h.docs.Review(ctx, doc.Document.Id, entity.DecisionApproved, h.admin, "")
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestWithdrawMarksRequirementMissing(t *testing.T) {
	h := newHarness(t)
	p := h.newPurpose("Business Permit", 2)
	app := h.apply(p.Id)
	reqID := p.Requirements[0].Id
	doc := h.upload(app.Id, reqID)
	path := h.storagePath(doc.Document.Id)
	ctx := context.Background()

	_, err := h.docs.Withdraw(ctx, entity.Caller{UserID: uuid.New()}, doc.Document.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	res, err := h.docs.Withdraw(ctx, h.applicant, doc.Document.Id)
	require.NoError(t, err)
	assert.Equal(t, string(lifecycle.StatusUnderReview), res.Status)

	entry := h.ledgerEntry(app.Id, reqID)
	assert.True(t, entry.IsMissing)
	assert.False(t, entry.IsSubmitted)
	assert.Nil(t, entry.SubmissionDate)
	assert.Equal(t, 0, h.documentCount(app.Id))
	assert.False(t, h.store.Exists(path))
}

func TestOpenReturnsStoredBytes(t *testing.T) {
	h := newHarness(t)
	p := h.newPurpose("Employment", 1)
	app := h.apply(p.Id)
	doc := h.upload(app.Id, p.Requirements[0].Id)
	ctx := context.Background()

	rc, meta, err := h.docs.Open(ctx, h.applicant, doc.Document.Id)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 scan.pdf", string(body))
	assert.Equal(t, "scan.pdf", meta.OriginalFilename)

	_, _, err = h.docs.Open(ctx, entity.Caller{UserID: uuid.New()}, doc.Document.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	list, err := h.docs.ListForApplication(ctx, entity.Caller{UserID: h.admin, Admin: true}, app.Id)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
