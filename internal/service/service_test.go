package service

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"ncip-portal/internal/dto"
	"ncip-portal/internal/entity"
	"ncip-portal/internal/model"
	"ncip-portal/internal/pkg/clock"
	"ncip-portal/internal/pkg/filestore"
	"ncip-portal/internal/pkg/logger"
	"ncip-portal/internal/repository/memory"
	"ncip-portal/internal/repository/specification"
	"ncip-portal/internal/repository/unitofwork"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// 09:00 Manila time on a Monday.
var testStart = time.Date(2025, 3, 3, 1, 0, 0, 0, time.UTC)

const testMaxUpload = 5 << 20

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Immediate transactions take the write lock at BEGIN, which stands in
	// for the row locks sqlite does not have.
	dsn := filepath.Join(t.TempDir(), "ncip.db") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Purpose{},
		&model.Requirement{},
		&model.Application{},
		&model.RequirementCompliance{},
		&model.UploadedDocument{},
		&model.ReviewHistory{},
		&model.CancellationLog{},
		&model.NotificationQueue{},
		&model.NotificationDelivery{},
		&model.GenealogyRecord{},
		&model.GenealogyRelationship{},
	))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []dto.StatusChangedMessage
}

func (p *recordingPublisher) PublishStatusChanged(_ context.Context, msg dto.StatusChangedMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) transitions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.msgs))
	for i, m := range p.msgs {
		out[i] = m.From + "->" + m.To
	}
	return out
}

type harness struct {
	t         *testing.T
	db        *gorm.DB
	uow       unitofwork.RepositoryFactory
	clock     *clock.Fixed
	store     *filestore.FileStore
	events    *recordingPublisher
	purposes  IPurposeService
	apps      IApplicationService
	docs      IDocumentService
	sweep     ISweepService
	applicant entity.Caller
	admin     uuid.UUID
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := newTestDB(t)
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	h := &harness{
		t:         t,
		db:        db,
		uow:       unitofwork.NewRepositoryFactory(db),
		clock:     clock.NewFixed(testStart),
		store:     store,
		events:    &recordingPublisher{},
		applicant: entity.Caller{UserID: uuid.New()},
		admin:     uuid.New(),
	}
	log := logger.NewNop()
	ledger := NewLedger()

	h.purposes = NewPurposeService(h.uow, memory.NewPurposeCache(time.Minute), log, 30)
	h.apps = NewApplicationService(h.uow, h.purposes, ledger, h.events, h.clock, log, 30)
	h.docs = NewDocumentService(h.uow, h.purposes, ledger, store, h.events, h.clock, log, testMaxUpload)
	h.sweep = NewSweepService(h.uow, h.clock, log)
	return h
}

// newPurpose creates a purpose with n mandatory requirements.
func (h *harness) newPurpose(name string, n int) *dto.PurposeResponse {
	h.t.Helper()
	req := &dto.CreatePurposeRequest{Name: name, DeadlineDays: 30}
	for i := 0; i < n; i++ {
		req.Requirements = append(req.Requirements, dto.RequirementRequest{
			Name: "Requirement " + string(rune('A'+i)),
		})
	}
	p, err := h.purposes.Create(context.Background(), req)
	require.NoError(h.t, err)
	require.Len(h.t, p.Requirements, n)
	return p
}

func (h *harness) apply(purposeID uuid.UUID) *dto.ApplicationDetailResponse {
	h.t.Helper()
	app, err := h.apps.Create(context.Background(), h.applicant, &dto.CreateApplicationRequest{PurposeId: purposeID})
	require.NoError(h.t, err)
	return app
}

func pdfFile(name string) entity.UploadFile {
	content := []byte("%PDF-1.4 " + name)
	return entity.UploadFile{
		Filename: name,
		MimeType: "application/pdf",
		Size:     int64(len(content)),
		Content:  bytes.NewReader(content),
	}
}

func (h *harness) upload(appID, reqID uuid.UUID) *dto.UploadResponse {
	h.t.Helper()
	res, err := h.docs.Upload(context.Background(), h.applicant, appID, reqID, pdfFile("scan.pdf"))
	require.NoError(h.t, err)
	return res
}

func (h *harness) review(docID uuid.UUID, decision entity.ReviewDecision) *dto.ReviewDocumentResponse {
	h.t.Helper()
	res, err := h.docs.Review(context.Background(), docID, decision, h.admin, "")
	require.NoError(h.t, err)
	return res
}

func (h *harness) application(id uuid.UUID) *entity.Application {
	h.t.Helper()
	app, err := h.uow.NewUnitOfWork(context.Background()).ApplicationRepository().FindOne(context.Background(), specification.ByID{ID: id})
	require.NoError(h.t, err)
	require.NotNil(h.t, app)
	return app
}

func (h *harness) ledgerEntry(appID, reqID uuid.UUID) *entity.RequirementCompliance {
	h.t.Helper()
	entry, err := h.uow.NewUnitOfWork(context.Background()).ComplianceRepository().FindOne(context.Background(), appID, reqID)
	require.NoError(h.t, err)
	require.NotNil(h.t, entry)
	return entry
}

func (h *harness) notifications(userID uuid.UUID) []*entity.NotificationQueueEntry {
	h.t.Helper()
	entries, err := h.uow.NewUnitOfWork(context.Background()).NotificationRepository().FindAll(context.Background(),
		specification.UserOwnedBy{UserID: userID},
		specification.OrderBy{Field: "created_at"},
	)
	require.NoError(h.t, err)
	return entries
}

func (h *harness) cancellations(appID uuid.UUID) []*entity.CancellationLog {
	h.t.Helper()
	logs, err := h.uow.NewUnitOfWork(context.Background()).CancellationRepository().FindAll(context.Background(),
		specification.Filter("application_id", appID),
	)
	require.NoError(h.t, err)
	return logs
}

func (h *harness) documentCount(appID uuid.UUID) int {
	h.t.Helper()
	docs, err := h.uow.NewUnitOfWork(context.Background()).DocumentRepository().FindAll(context.Background(),
		specification.ByApplicationID{ApplicationID: appID},
	)
	require.NoError(h.t, err)
	return len(docs)
}

func (h *harness) createUser(email string, role entity.UserRole, status entity.UserStatus) *entity.User {
	h.t.Helper()
	u := &entity.User{
		Id:        uuid.New(),
		Email:     email,
		FullName:  "Test " + string(role),
		Role:      role,
		Status:    status,
		CreatedAt: h.clock.Now(),
		UpdatedAt: h.clock.Now(),
	}
	require.NoError(h.t, h.uow.NewUnitOfWork(context.Background()).UserRepository().Create(context.Background(), u))
	return u
}

func (h *harness) storagePath(docID uuid.UUID) string {
	h.t.Helper()
	doc, err := h.uow.NewUnitOfWork(context.Background()).DocumentRepository().FindOne(context.Background(), specification.ByID{ID: docID})
	require.NoError(h.t, err)
	require.NotNil(h.t, doc)
	return doc.StoragePath
}

var cancelReq = dto.CancelApplicationRequest{Reason: "No longer needed"}

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}
