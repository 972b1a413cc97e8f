// Пакет docstore — абстракция хранилища документов заявок.
// Определяет интерфейс Store с двумя реализациями: локальная эмуляция
// на диске (localstore) и удалённое хранилище по HTTP (remotestore).
// Здесь же — разбор локаторов и санитизация имён файлов.
package docstore

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
)

// Ошибки хранилища документов.
var (
	// ErrNotFound — объект с таким локатором отсутствует в хранилище.
	ErrNotFound = errors.New("документ не найден в хранилище")
	// ErrMalformedLocator — локатор не удалось разобрать.
	ErrMalformedLocator = errors.New("некорректный локатор документа")
)

// ObjectInfo — метаданные объекта в хранилище.
type ObjectInfo struct {
	// ContentType — MIME-тип содержимого
	ContentType string
	// Size — размер объекта в байтах
	Size int64
}

// Store — хранилище документов заявок.
// Локатор — непрозрачная строка, возвращённая Put; формат зависит
// от реализации, но всегда разбирается ParseLocator.
type Store interface {
	// Put сохраняет содержимое reader под владельцем ownerID.
	// Возвращает локатор сохранённого объекта.
	Put(ctx context.Context, ownerID, filename string, r io.Reader) (string, error)
	// Metadata возвращает метаданные объекта по локатору.
	Metadata(ctx context.Context, locator string) (*ObjectInfo, error)
	// Open открывает объект для streaming-чтения.
	// Вызывающий код обязан закрыть ReadCloser.
	Open(ctx context.Context, locator string) (io.ReadCloser, error)
}

// SanitizeFilename приводит имя файла к безопасному виду для хранения.
// Разрешены буквы ASCII, цифры, точка, подчёркивание и дефис; всё
// остальное заменяется на подчёркивание. Пустое имя заменяется
// на document.pdf.
func SanitizeFilename(filename string) string {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return "document.pdf"
	}

	var b strings.Builder
	b.Grow(len(filename))
	for _, r := range filename {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '_' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}

	sanitized := strings.Trim(b.String(), "._")
	if sanitized == "" {
		return "document.pdf"
	}
	return sanitized
}

// ParseLocator извлекает путь объекта внутри container из локатора.
// Поддерживаются две формы:
//   - URL со схемой: путь обязан содержать сегмент /{container}/,
//     возвращается остаток после него;
//   - относительный путь без схемы: принимается как есть.
//
// Любая другая форма — ErrMalformedLocator. URL со схемой, но без
// сегмента контейнера, также считается некорректным.
func ParseLocator(locator, container string) (string, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return "", ErrMalformedLocator
	}

	u, err := url.Parse(locator)
	if err != nil {
		return "", ErrMalformedLocator
	}

	// Относительный путь без схемы — принимаем как есть
	if u.Scheme == "" {
		path := strings.TrimPrefix(locator, "/")
		if path == "" {
			return "", ErrMalformedLocator
		}
		return path, nil
	}

	// URL со схемой — ищем сегмент контейнера в пути
	marker := "/" + container + "/"
	idx := strings.Index(u.Path, marker)
	if idx < 0 {
		return "", ErrMalformedLocator
	}

	path := u.Path[idx+len(marker):]
	if path == "" {
		return "", ErrMalformedLocator
	}
	return path, nil
}
