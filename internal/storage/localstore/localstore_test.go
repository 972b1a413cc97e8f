package localstore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/arturkryukov/progoffice/submission-module/internal/storage/docstore"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	s, err := New(t.TempDir(), "program-documents", logger)
	if err != nil {
		t.Fatalf("New(): неожиданная ошибка: %v", err)
	}
	return s
}

func TestPutOpenRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	locator, err := s.Put(ctx, "owner-1", "report.pdf", strings.NewReader("содержимое документа"))
	if err != nil {
		t.Fatalf("Put(): неожиданная ошибка: %v", err)
	}
	expected := "file://localhost/program-documents/owner-1/report.pdf"
	if locator != expected {
		t.Errorf("Put(): локатор %q, ожидался %q", locator, expected)
	}

	rc, err := s.Open(ctx, locator)
	if err != nil {
		t.Fatalf("Open(): неожиданная ошибка: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll(): %v", err)
	}
	if string(data) != "содержимое документа" {
		t.Errorf("содержимое не совпадает: %q", data)
	}
}

func TestPut_SanitizesFilename(t *testing.T) {
	s := newTestStore(t)

	locator, err := s.Put(context.Background(), "owner-1", "annual report (final).pdf", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Put(): %v", err)
	}
	if !strings.HasSuffix(locator, "/owner-1/annual_report__final_.pdf") {
		t.Errorf("Put(): имя не санитизировано в локаторе: %q", locator)
	}
}

func TestPut_Overwrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Put(ctx, "owner-1", "doc.txt", strings.NewReader("первая версия")); err != nil {
		t.Fatalf("Put(): %v", err)
	}
	locator, err := s.Put(ctx, "owner-1", "doc.txt", strings.NewReader("вторая версия"))
	if err != nil {
		t.Fatalf("повторный Put(): %v", err)
	}

	rc, err := s.Open(ctx, locator)
	if err != nil {
		t.Fatalf("Open(): %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "вторая версия" {
		t.Errorf("перезапись не сработала: %q", data)
	}
}

func TestMetadata(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	payload := "pdf-подобное содержимое"
	locator, err := s.Put(ctx, "owner-1", "report.pdf", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Put(): %v", err)
	}

	info, err := s.Metadata(ctx, locator)
	if err != nil {
		t.Fatalf("Metadata(): неожиданная ошибка: %v", err)
	}
	if info.Size != int64(len(payload)) {
		t.Errorf("Metadata(): размер %d, ожидался %d", info.Size, len(payload))
	}
	if !strings.HasPrefix(info.ContentType, "application/pdf") {
		t.Errorf("Metadata(): MIME-тип %q, ожидался application/pdf", info.ContentType)
	}
}

func TestOpen_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Open(context.Background(), "file://localhost/program-documents/owner-1/missing.pdf")
	if !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("Open() несуществующего объекта: ожидалась ErrNotFound, получено %v", err)
	}
}

func TestOpen_MalformedLocator(t *testing.T) {
	s := newTestStore(t)

	tests := []string{
		"https://storage.example.com/other-container/a/b.pdf",
		"",
	}
	for _, locator := range tests {
		if _, err := s.Open(context.Background(), locator); !errors.Is(err, docstore.ErrMalformedLocator) {
			t.Errorf("Open(%q): ожидалась ErrMalformedLocator, получено %v", locator, err)
		}
	}
}
