package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/arturkryukov/progoffice/submission-module/internal/enrichment"
	"github.com/arturkryukov/progoffice/submission-module/internal/storage/docstore"
)

// mockStore — хранилище документов с настраиваемым поведением.
type mockStore struct {
	putFn      func(ctx context.Context, ownerID, filename string, r io.Reader) (string, error)
	metadataFn func(ctx context.Context, locator string) (*docstore.ObjectInfo, error)
	openFn     func(ctx context.Context, locator string) (io.ReadCloser, error)
}

func (m *mockStore) Put(ctx context.Context, ownerID, filename string, r io.Reader) (string, error) {
	return m.putFn(ctx, ownerID, filename, r)
}

func (m *mockStore) Metadata(ctx context.Context, locator string) (*docstore.ObjectInfo, error) {
	return m.metadataFn(ctx, locator)
}

func (m *mockStore) Open(ctx context.Context, locator string) (io.ReadCloser, error) {
	return m.openFn(ctx, locator)
}

func newTestDocumentService(t *testing.T, repo *fakeSubmissionRepo, store docstore.Store) *DocumentService {
	t.Helper()
	logger := slog.Default()
	submissionSvc := newTestService(repo)
	// Конвейер обогащения выключен (пустой URL) — Notify становится no-op
	enrichmentSvc := NewEnrichmentService(
		enrichment.New("", "", 5*time.Second, logger), submissionSvc, logger)
	return NewDocumentService(store, submissionSvc, enrichmentSvc, 50<<20, logger)
}

// TestAttachBestEffort_Success проверяет загрузку и привязку локатора.
func TestAttachBestEffort_Success(t *testing.T) {
	repo := newFakeSubmissionRepo()
	store := &mockStore{
		putFn: func(_ context.Context, ownerID, filename string, _ io.Reader) (string, error) {
			return "file://localhost/program-documents/" + ownerID + "/" + filename, nil
		},
	}
	svc := newTestDocumentService(t, repo, store)
	s := createTestSubmission(t, newTestService(repo))

	svc.AttachBestEffort(context.Background(), s.ID, "report.pdf", strings.NewReader("x"))

	got, err := repo.GetByID(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("GetByID(): %v", err)
	}
	if got.DocumentRef == nil {
		t.Fatal("AttachBestEffort(): локатор не привязан к заявке")
	}
	if !strings.Contains(*got.DocumentRef, s.ID) {
		t.Errorf("AttachBestEffort(): локатор %q не содержит ID заявки", *got.DocumentRef)
	}
}

// TestAttachBestEffort_UploadFailureNonFatal проверяет, что сбой загрузки
// не трогает заявку и не паникует.
func TestAttachBestEffort_UploadFailureNonFatal(t *testing.T) {
	repo := newFakeSubmissionRepo()
	store := &mockStore{
		putFn: func(_ context.Context, _, _ string, _ io.Reader) (string, error) {
			return "", errors.New("хранилище недоступно")
		},
	}
	svc := newTestDocumentService(t, repo, store)
	s := createTestSubmission(t, newTestService(repo))

	svc.AttachBestEffort(context.Background(), s.ID, "report.pdf", strings.NewReader("x"))

	got, err := repo.GetByID(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("GetByID(): %v", err)
	}
	if got.DocumentRef != nil {
		t.Error("сбой загрузки не должен привязывать локатор")
	}
}

// TestDownload_Success проверяет подготовку streaming-выдачи.
func TestDownload_Success(t *testing.T) {
	repo := newFakeSubmissionRepo()
	content := "pdf содержимое"
	store := &mockStore{
		metadataFn: func(_ context.Context, _ string) (*docstore.ObjectInfo, error) {
			return &docstore.ObjectInfo{ContentType: "application/pdf", Size: int64(len(content))}, nil
		},
		openFn: func(_ context.Context, _ string) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
	svc := newTestDocumentService(t, repo, store)
	submissionSvc := newTestService(repo)
	s := createTestSubmission(t, submissionSvc)
	if _, err := submissionSvc.AttachDocumentRef(context.Background(), s.ID,
		"file://localhost/program-documents/"+s.ID+"/report.pdf"); err != nil {
		t.Fatalf("AttachDocumentRef(): %v", err)
	}

	dl, err := svc.Download(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("Download(): неожиданная ошибка: %v", err)
	}
	defer dl.Body.Close()

	if dl.ContentType != "application/pdf" {
		t.Errorf("Download(): Content-Type %q", dl.ContentType)
	}
	if dl.Filename != "report.pdf" {
		t.Errorf("Download(): имя файла %q, ожидалось report.pdf", dl.Filename)
	}
	data, _ := io.ReadAll(dl.Body)
	if string(data) != content {
		t.Errorf("Download(): содержимое не совпадает: %q", data)
	}
}

// TestDownload_NoDocument проверяет заявку без документа.
func TestDownload_NoDocument(t *testing.T) {
	repo := newFakeSubmissionRepo()
	svc := newTestDocumentService(t, repo, &mockStore{})
	s := createTestSubmission(t, newTestService(repo))

	_, err := svc.Download(context.Background(), s.ID)
	if !errors.Is(err, ErrNoDocument) {
		t.Errorf("Download(): ожидалась ErrNoDocument, получено %v", err)
	}
}

// TestDownload_OrphanedLocator проверяет осиротевший локатор — NotFound для клиента.
func TestDownload_OrphanedLocator(t *testing.T) {
	repo := newFakeSubmissionRepo()
	store := &mockStore{
		metadataFn: func(_ context.Context, _ string) (*docstore.ObjectInfo, error) {
			return nil, docstore.ErrNotFound
		},
	}
	svc := newTestDocumentService(t, repo, store)
	submissionSvc := newTestService(repo)
	s := createTestSubmission(t, submissionSvc)
	if _, err := submissionSvc.AttachDocumentRef(context.Background(), s.ID, "ghost/path.pdf"); err != nil {
		t.Fatalf("AttachDocumentRef(): %v", err)
	}

	_, err := svc.Download(context.Background(), s.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Download(): ожидалась ErrNotFound, получено %v", err)
	}
}

// TestDownload_StorageUnavailable проверяет классификацию сбоя хранилища.
func TestDownload_StorageUnavailable(t *testing.T) {
	repo := newFakeSubmissionRepo()
	store := &mockStore{
		metadataFn: func(_ context.Context, _ string) (*docstore.ObjectInfo, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := newTestDocumentService(t, repo, store)
	submissionSvc := newTestService(repo)
	s := createTestSubmission(t, submissionSvc)
	if _, err := submissionSvc.AttachDocumentRef(context.Background(), s.ID, "a/b.pdf"); err != nil {
		t.Fatalf("AttachDocumentRef(): %v", err)
	}

	_, err := svc.Download(context.Background(), s.ID)
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("Download(): ожидалась ErrStorageUnavailable, получено %v", err)
	}
}
