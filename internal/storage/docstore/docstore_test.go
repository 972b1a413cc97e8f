package docstore

import (
	"errors"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"обычное имя", "report.pdf", "report.pdf"},
		{"пробелы внутри", "annual report 2026.pdf", "annual_report_2026.pdf"},
		{"недопустимые символы", "бюджет (v2).pdf", "v2_.pdf"},
		{"пустая строка", "", "document.pdf"},
		{"только пробелы", "   ", "document.pdf"},
		{"только недопустимые", "///", "document.pdf"},
		{"дефисы и подчёркивания", "my-file_v1.doc", "my-file_v1.doc"},
		{"traversal", "../../etc/passwd", "etc_passwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.input)
			if got != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, ожидалось %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseLocator(t *testing.T) {
	const container = "program-documents"

	tests := []struct {
		name     string
		locator  string
		expected string
	}{
		{
			name:     "URL с сегментом контейнера",
			locator:  "https://storage.example.com/program-documents/abc-123/report.pdf",
			expected: "abc-123/report.pdf",
		},
		{
			name:     "file URL локальной эмуляции",
			locator:  "file://localhost/program-documents/abc-123/report.pdf",
			expected: "abc-123/report.pdf",
		},
		{
			name:     "относительный путь без схемы",
			locator:  "abc-123/report.pdf",
			expected: "abc-123/report.pdf",
		},
		{
			name:     "относительный путь с ведущим слэшем",
			locator:  "/abc-123/report.pdf",
			expected: "abc-123/report.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocator(tt.locator, container)
			if err != nil {
				t.Fatalf("ParseLocator(%q): неожиданная ошибка: %v", tt.locator, err)
			}
			if got != tt.expected {
				t.Errorf("ParseLocator(%q) = %q, ожидалось %q", tt.locator, got, tt.expected)
			}
		})
	}
}

func TestParseLocator_Malformed(t *testing.T) {
	const container = "program-documents"

	tests := []struct {
		name    string
		locator string
	}{
		{"пустая строка", ""},
		{"только пробелы", "  "},
		{"URL без сегмента контейнера", "https://storage.example.com/other-container/report.pdf"},
		{"URL с пустым остатком", "https://storage.example.com/program-documents/"},
		{"только слэш", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLocator(tt.locator, container)
			if !errors.Is(err, ErrMalformedLocator) {
				t.Errorf("ParseLocator(%q): ожидалась ErrMalformedLocator, получено %v", tt.locator, err)
			}
		})
	}
}
