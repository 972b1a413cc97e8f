package remotestore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/arturkryukov/progoffice/submission-module/internal/storage/docstore"
)

// newTestStore поднимает httptest-сервер, эмулирующий удалённое хранилище,
// и возвращает клиент, направленный на него.
func newTestStore(t *testing.T) (*Store, map[string][]byte) {
	t.Helper()

	objects := make(map[string][]byte)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		key := strings.TrimPrefix(r.URL.Path, "/")
		switch r.Method {
		case http.MethodPut:
			data, _ := io.ReadAll(r.Body)
			objects[key] = data
			w.WriteHeader(http.StatusCreated)
		case http.MethodHead, http.MethodGet:
			data, ok := objects[key]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Length", strconv.Itoa(len(data)))
			if r.Method == http.MethodGet {
				w.Write(data)
			}
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	store, err := New(srv.URL, "program-documents", "test-token", "", 5*time.Second, logger)
	if err != nil {
		t.Fatalf("New(): неожиданная ошибка: %v", err)
	}
	return store, objects
}

func TestPutOpenRoundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	locator, err := store.Put(ctx, "owner-1", "report.pdf", strings.NewReader("содержимое"))
	if err != nil {
		t.Fatalf("Put(): неожиданная ошибка: %v", err)
	}
	if !strings.HasSuffix(locator, "/program-documents/owner-1/report.pdf") {
		t.Errorf("Put(): неожиданный локатор %q", locator)
	}

	rc, err := store.Open(ctx, locator)
	if err != nil {
		t.Fatalf("Open(): неожиданная ошибка: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll(): %v", err)
	}
	if string(data) != "содержимое" {
		t.Errorf("содержимое не совпадает: %q", data)
	}
}

func TestMetadata_ContentType(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	locator, err := store.Put(ctx, "owner-1", "report.pdf", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Put(): %v", err)
	}

	info, err := store.Metadata(ctx, locator)
	if err != nil {
		t.Fatalf("Metadata(): неожиданная ошибка: %v", err)
	}
	if info.ContentType != "application/pdf" {
		t.Errorf("Metadata(): MIME-тип %q, ожидался application/pdf", info.ContentType)
	}
}

func TestOpen_NotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Open(context.Background(),
		"https://storage.example.com/program-documents/owner-1/missing.pdf")
	if !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("Open(): ожидалась ErrNotFound, получено %v", err)
	}
}

func TestOpen_MalformedLocator(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Open(context.Background(),
		"https://storage.example.com/wrong-container/a/b.pdf")
	if !errors.Is(err, docstore.ErrMalformedLocator) {
		t.Errorf("Open(): ожидалась ErrMalformedLocator, получено %v", err)
	}
}
