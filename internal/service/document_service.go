package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"ncip-portal/internal/dto"
	"ncip-portal/internal/entity"
	"ncip-portal/internal/pkg/apperror"
	"ncip-portal/internal/pkg/clock"
	"ncip-portal/internal/pkg/filestore"
	"ncip-portal/internal/pkg/logger"
	"ncip-portal/internal/repository/specification"
	"ncip-portal/internal/repository/unitofwork"
	"ncip-portal/pkg/lifecycle"
	"ncip-portal/pkg/metrics"

	"github.com/google/uuid"
)

// FileStorage owns document bytes. Paths it returns are opaque handles.
type FileStorage interface {
	Save(reader io.Reader, originalFilename, owner string) (*filestore.SaveResult, error)
	Open(storagePath string) (*os.File, error)
	Delete(storagePath string) error
}

var allowedMimeTypes = map[string]string{
	"application/pdf": "pdf",
	"image/jpeg":      "jpeg",
	"image/jpg":       "jpg",
	"image/png":       "png",
}

var allowedExtensions = map[string]bool{
	"pdf": true, "jpg": true, "jpeg": true, "png": true,
}

type IDocumentService interface {
	Upload(ctx context.Context, caller entity.Caller, appID, reqID uuid.UUID, file entity.UploadFile) (*dto.UploadResponse, error)
	Withdraw(ctx context.Context, caller entity.Caller, docID uuid.UUID) (*dto.ApplicationResponse, error)
	ListForApplication(ctx context.Context, caller entity.Caller, appID uuid.UUID) ([]dto.DocumentResponse, error)
	Open(ctx context.Context, caller entity.Caller, docID uuid.UUID) (io.ReadCloser, *dto.DocumentResponse, error)

	// Review is admin only; the HTTP layer enforces the role.
	Review(ctx context.Context, docID uuid.UUID, decision entity.ReviewDecision, reviewerID uuid.UUID, notes string) (*dto.ReviewDocumentResponse, error)
}

type documentService struct {
	uowFactory     unitofwork.RepositoryFactory
	purposes       PurposeLookup
	ledger         *Ledger
	store          FileStorage
	publisher      StatusPublisher
	clock          clock.Clock
	logger         logger.ILogger
	maxUploadBytes int64
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	purposes PurposeLookup,
	ledger *Ledger,
	store FileStorage,
	publisher StatusPublisher,
	clk clock.Clock,
	logger logger.ILogger,
	maxUploadBytes int64,
) IDocumentService {
	return &documentService{
		uowFactory:     uowFactory,
		purposes:       purposes,
		ledger:         ledger,
		store:          store,
		publisher:      publisher,
		clock:          clk,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

func fileExtension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

func (s *documentService) validateFile(file entity.UploadFile) error {
	if file.Content == nil || file.Size <= 0 {
		return apperror.Validation("file is empty")
	}
	if file.Size > s.maxUploadBytes {
		return apperror.Validation("file exceeds the %d MB limit", s.maxUploadBytes>>20)
	}
	mimeType := strings.ToLower(strings.TrimSpace(strings.Split(file.MimeType, ";")[0]))
	if _, ok := allowedMimeTypes[mimeType]; !ok {
		return apperror.Validation("file type %q is not allowed; upload a PDF, JPEG or PNG", file.MimeType)
	}
	if !allowedExtensions[fileExtension(file.Filename)] {
		return apperror.Validation("file extension of %q is not allowed", file.Filename)
	}
	return nil
}

func findRequirement(p *entity.Purpose, reqID uuid.UUID) *entity.Requirement {
	for i := range p.Requirements {
		if p.Requirements[i].Id == reqID {
			return &p.Requirements[i]
		}
	}
	return nil
}

func (s *documentService) Upload(ctx context.Context, caller entity.Caller, appID, reqID uuid.UUID, file entity.UploadFile) (*dto.UploadResponse, error) {
	if err := s.validateFile(file); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	app, err := uow.ApplicationRepository().FindOneForUpdate(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app == nil || !caller.CanAct(app.UserId) {
		return nil, apperror.NotFound("application %s not found", appID)
	}
	if app.Status.IsTerminal() {
		return nil, apperror.Conflict("application %s is %s and no longer accepts documents", app.ApplicationNumber, app.Status)
	}

	purpose, err := s.purposes.Lookup(ctx, app.PurposeId)
	if err != nil {
		return nil, err
	}
	req := findRequirement(purpose, reqID)
	if req == nil {
		return nil, apperror.NotFound("requirement %s not found for purpose %q", reqID, purpose.Name)
	}
	if !req.Accepts(fileExtension(file.Filename)) {
		return nil, apperror.Validation("%q accepts only %s files", req.Name, strings.Join(req.AllowedTypes, ", "))
	}
	if req.MaxSizeMB > 0 && file.Size > int64(req.MaxSizeMB)<<20 {
		return nil, apperror.Validation("%q accepts files up to %d MB", req.Name, req.MaxSizeMB)
	}

	entry, err := uow.ComplianceRepository().FindOne(ctx, app.Id, reqID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, apperror.NotFound("requirement %s is not part of application %s", reqID, app.ApplicationNumber)
	}

	saved, err := s.store.Save(io.LimitReader(file.Content, s.maxUploadBytes+1), file.Filename, app.Id.String())
	if err != nil {
		return nil, apperror.IO(err, "could not store the uploaded file")
	}
	committed := false
	defer func() {
		if !committed {
			if err := s.store.Delete(saved.StoragePath); err != nil {
				s.logger.Warn("DOCUMENT", "Failed to remove orphaned upload", map[string]interface{}{
					"storage_path": saved.StoragePath,
					"error":        err.Error(),
				})
			}
		}
	}()
	if saved.Size > s.maxUploadBytes {
		return nil, apperror.Validation("file exceeds the %d MB limit", s.maxUploadBytes>>20)
	}

	old, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByApplicationID{ApplicationID: app.Id},
		specification.ByRequirementID{RequirementID: reqID},
	)
	if err != nil {
		return nil, err
	}
	if old != nil {
		if err := uow.DocumentRepository().Delete(ctx, old.Id); err != nil {
			return nil, fmt.Errorf("remove superseded document: %w", err)
		}
	}

	now := s.clock.Now()
	doc := &entity.UploadedDocument{
		Id:               uuid.New(),
		ApplicationId:    app.Id,
		RequirementId:    reqID,
		OriginalFilename: file.Filename,
		StoragePath:      saved.StoragePath,
		FileSize:         saved.Size,
		MimeType:         file.MimeType,
		Checksum:         saved.Checksum,
		UploadStatus:     entity.UploadStatusUploaded,
		ReviewStatus:     entity.ReviewStatusPending,
		UploadedBy:       caller.UserID,
		UploadedAt:       now,
	}
	if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
		return nil, err
	}

	compliance := uow.ComplianceRepository()
	if _, err := s.ledger.MarkSubmitted(ctx, compliance, app.Id, reqID, now); err != nil {
		return nil, err
	}
	from, err := s.rederive(ctx, uow, app)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	committed = true

	if old != nil {
		if err := s.store.Delete(old.StoragePath); err != nil {
			s.logger.Warn("DOCUMENT", "Failed to delete superseded file", map[string]interface{}{
				"storage_path": old.StoragePath,
				"error":        err.Error(),
			})
		}
	}
	metrics.DocumentsUploadedTotal.Inc()

	s.logger.Info("DOCUMENT", "Document uploaded", map[string]interface{}{
		"application_id": app.Id.String(),
		"requirement_id": reqID.String(),
		"document_id":    doc.Id.String(),
		"superseded":     old != nil,
		"status":         string(app.Status),
	})
	if from != app.Status {
		s.publish(ctx, statusChanged(app, from, now))
	}

	return &dto.UploadResponse{
		Document:          toDocumentResponse(doc),
		ApplicationStatus: string(app.Status),
	}, nil
}

// rederive runs the aggregator over the ledger and writes the application.
// It returns the status the application had before.
func (s *documentService) rederive(ctx context.Context, uow unitofwork.UnitOfWork, app *entity.Application) (lifecycle.Status, error) {
	counts, err := s.ledger.Counts(ctx, uow.ComplianceRepository(), app.Id)
	if err != nil {
		return app.Status, err
	}

	from := app.Status
	now := s.clock.Now()
	if next, changed := lifecycle.Derive(app.Status, counts); changed {
		if err := app.MoveTo(next, now); err != nil {
			return from, apperror.Conflict("%s", err.Error())
		}
	}
	app.UpdatedAt = now
	if err := uow.ApplicationRepository().Update(ctx, app); err != nil {
		return from, err
	}
	return from, nil
}

// documentApplication returns the id of the application owning a document.
// The read takes no lock; callers lock the application and then reread the
// document with relockDocument.
func (s *documentService) documentApplication(ctx context.Context, uow unitofwork.UnitOfWork, docID uuid.UUID) (uuid.UUID, error) {
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: docID})
	if err != nil {
		return uuid.Nil, err
	}
	if doc == nil {
		return uuid.Nil, apperror.NotFound("document %s not found", docID)
	}
	return doc.ApplicationId, nil
}

// relockDocument rereads a document after its application row is locked.
// A document superseded or withdrawn in between is reported as not found.
func (s *documentService) relockDocument(ctx context.Context, uow unitofwork.UnitOfWork, docID, appID uuid.UUID) (*entity.UploadedDocument, error) {
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: docID},
		specification.ByApplicationID{ApplicationID: appID},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NotFound("document %s not found", docID)
	}
	return doc, nil
}

func (s *documentService) Withdraw(ctx context.Context, caller entity.Caller, docID uuid.UUID) (*dto.ApplicationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	appID, err := s.documentApplication(ctx, uow, docID)
	if err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	app, err := uow.ApplicationRepository().FindOneForUpdate(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app == nil || !caller.CanAct(app.UserId) {
		return nil, apperror.NotFound("document %s not found", docID)
	}
	if app.Status.IsTerminal() {
		return nil, apperror.Conflict("application %s is %s; its documents can no longer change", app.ApplicationNumber, app.Status)
	}
	doc, err := s.relockDocument(ctx, uow, docID, app.Id)
	if err != nil {
		return nil, err
	}

	if err := uow.DocumentRepository().Delete(ctx, doc.Id); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if _, err := s.ledger.MarkMissing(ctx, uow.ComplianceRepository(), app.Id, doc.RequirementId, now); err != nil {
		return nil, err
	}
	from, err := s.rederive(ctx, uow, app)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if err := s.store.Delete(doc.StoragePath); err != nil {
		s.logger.Warn("DOCUMENT", "Failed to delete withdrawn file", map[string]interface{}{
			"storage_path": doc.StoragePath,
			"error":        err.Error(),
		})
	}
	if from != app.Status {
		s.publish(ctx, statusChanged(app, from, now))
	}

	res := toApplicationResponse(app, now)
	return &res, nil
}

func (s *documentService) ListForApplication(ctx context.Context, caller entity.Caller, appID uuid.UUID) ([]dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	app, err := uow.ApplicationRepository().FindOne(ctx, specification.ByID{ID: appID})
	if err != nil {
		return nil, err
	}
	if app == nil || !caller.CanAct(app.UserId) {
		return nil, apperror.NotFound("application %s not found", appID)
	}

	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.ByApplicationID{ApplicationID: appID},
		specification.OrderBy{Field: "uploaded_at"},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		res = append(res, toDocumentResponse(d))
	}
	return res, nil
}

func (s *documentService) Open(ctx context.Context, caller entity.Caller, docID uuid.UUID) (io.ReadCloser, *dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: docID})
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, apperror.NotFound("document %s not found", docID)
	}
	app, err := uow.ApplicationRepository().FindOne(ctx, specification.ByID{ID: doc.ApplicationId})
	if err != nil {
		return nil, nil, err
	}
	if app == nil || !caller.CanAct(app.UserId) {
		return nil, nil, apperror.NotFound("document %s not found", docID)
	}

	f, err := s.store.Open(doc.StoragePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, apperror.NotFound("file for document %s is missing", docID)
		}
		return nil, nil, apperror.IO(err, "could not open document file")
	}

	res := toDocumentResponse(doc)
	return f, &res, nil
}

func (s *documentService) Review(ctx context.Context, docID uuid.UUID, decision entity.ReviewDecision, reviewerID uuid.UUID, notes string) (*dto.ReviewDocumentResponse, error) {
	if !decision.Valid() {
		return nil, apperror.Validation("decision must be approved or rejected")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	appID, err := s.documentApplication(ctx, uow, docID)
	if err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	app, err := uow.ApplicationRepository().FindOneForUpdate(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, apperror.NotFound("application %s not found", appID)
	}
	if app.Status.IsTerminal() {
		return nil, apperror.Conflict("application %s is %s; its documents can no longer be reviewed", app.ApplicationNumber, app.Status)
	}
	doc, err := s.relockDocument(ctx, uow, docID, app.Id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	notesPtr := stringPtr(strings.TrimSpace(notes))
	doc.ReviewStatus = entity.ReviewStatus(decision)
	doc.ReviewedBy = &reviewerID
	doc.ReviewNotes = notesPtr
	doc.ReviewedAt = &now
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return nil, err
	}

	approved := decision == entity.DecisionApproved
	if _, err := s.ledger.MarkReviewed(ctx, uow.ComplianceRepository(), app.Id, doc.RequirementId, approved, now); err != nil {
		return nil, err
	}

	app.ReviewedBy = &reviewerID
	app.ReviewedAt = &now
	from, err := s.rederive(ctx, uow, app)
	if err != nil {
		return nil, err
	}

	reviewedDocID := doc.Id
	err = uow.ApplicationRepository().CreateReview(ctx, &entity.ReviewHistory{
		ApplicationId: app.Id,
		DocumentId:    &reviewedDocID,
		Action:        entity.ReviewKindDocument,
		Status:        string(decision),
		Notes:         notesPtr,
		ReviewedBy:    reviewerID,
		ReviewedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("append review history: %w", err)
	}

	counts, err := s.ledger.Counts(ctx, uow.ComplianceRepository(), app.Id)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("REVIEW", "Document reviewed", map[string]interface{}{
		"document_id":    doc.Id.String(),
		"application_id": app.Id.String(),
		"decision":       string(decision),
		"status":         string(app.Status),
	})
	if from != app.Status {
		s.publish(ctx, statusChanged(app, from, now))
	}

	return &dto.ReviewDocumentResponse{
		Document:          toDocumentResponse(doc),
		ApplicationStatus: string(app.Status),
		FullyApproved:     counts.FullyApproved(),
	}, nil
}

func (s *documentService) publish(ctx context.Context, msg dto.StatusChangedMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishStatusChanged(ctx, msg); err != nil {
		s.logger.Error("DOCUMENT", "Failed to publish status change", map[string]interface{}{
			"application_id": msg.ApplicationId.String(),
			"error":          err.Error(),
		})
	}
}
