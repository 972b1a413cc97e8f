// Пакет localstore — локальная эмуляция хранилища документов на диске.
// Используется в разработке и тестах вместо удалённого хранилища.
// Запись по паттерну: temp файл → fsync → atomic rename.
package localstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/arturkryukov/progoffice/submission-module/internal/storage/docstore"
)

// Store — хранилище документов на локальном диске.
// Объекты лежат в {dataDir}/{ownerID}/{filename}; локатор имеет вид
// file://localhost/{container}/{ownerID}/{filename}.
type Store struct {
	dataDir   string
	container string
	logger    *slog.Logger
}

// New создаёт локальное хранилище. Создаёт директорию данных,
// если она не существует.
func New(dataDir, container string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию данных %s: %w", dataDir, err)
	}

	return &Store{
		dataDir:   dataDir,
		container: container,
		logger:    logger.With(slog.String("component", "localstore")),
	}, nil
}

// Put сохраняет содержимое reader в {dataDir}/{ownerID}/{filename}.
// Имя файла санитизируется до записи. Повторная запись под тем же
// владельцем и именем перезаписывает объект атомарно.
func (s *Store) Put(ctx context.Context, ownerID, filename string, r io.Reader) (string, error) {
	name := docstore.SanitizeFilename(filename)

	ownerDir := filepath.Join(s.dataDir, ownerID)
	if err := os.MkdirAll(ownerDir, 0o750); err != nil {
		return "", fmt.Errorf("ошибка создания директории владельца: %w", err)
	}

	fullPath := filepath.Join(ownerDir, name)
	tmpPath := fullPath + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("ошибка создания временного файла: %w", err)
	}

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("ошибка записи данных: %w", err)
	}

	// fsync для гарантии записи на диск
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("ошибка fsync: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	// Атомарный rename
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("ошибка атомарного переименования: %w", err)
	}

	locator := fmt.Sprintf("file://localhost/%s/%s/%s", s.container, ownerID, name)

	s.logger.Debug("Документ сохранён локально",
		slog.String("locator", locator),
		slog.Int64("size", size),
	)

	return locator, nil
}

// Metadata возвращает метаданные объекта. MIME-тип определяется
// по расширению файла; неизвестное расширение — application/octet-stream.
func (s *Store) Metadata(ctx context.Context, locator string) (*docstore.ObjectInfo, error) {
	fullPath, err := s.resolve(locator)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения информации о файле: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(fullPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &docstore.ObjectInfo{
		ContentType: contentType,
		Size:        info.Size(),
	}, nil
}

// Open открывает объект для чтения. Вызывающий код обязан закрыть файл.
func (s *Store) Open(ctx context.Context, locator string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(locator)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	return f, nil
}

// resolve разбирает локатор и возвращает абсолютный путь внутри dataDir.
// Путь, выходящий за пределы dataDir, отклоняется как некорректный.
func (s *Store) resolve(locator string) (string, error) {
	path, err := docstore.ParseLocator(locator, s.container)
	if err != nil {
		return "", err
	}

	fullPath := filepath.Join(s.dataDir, filepath.FromSlash(path))
	rel, err := filepath.Rel(s.dataDir, fullPath)
	if err != nil || rel == ".." || len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator) {
		return "", docstore.ErrMalformedLocator
	}
	return fullPath, nil
}
