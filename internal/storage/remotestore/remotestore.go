// Пакет remotestore — HTTP-клиент удалённого хранилища документов.
// Объекты адресуются как {baseURL}/{container}/{ownerID}/{filename};
// авторизация через статический Bearer-токен, TLS с кастомным CA
// (SM_STORAGE_CA_CERT_PATH).
package remotestore

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/arturkryukov/progoffice/submission-module/internal/storage/docstore"
)

// Store — клиент удалённого хранилища документов.
type Store struct {
	httpClient *http.Client
	baseURL    string
	container  string
	token      string
	logger     *slog.Logger
}

// New создаёт клиент удалённого хранилища.
// caCertPath — путь к CA-сертификату для TLS (пустая строка — стандартный пул).
func New(baseURL, container, token, caCertPath string, timeout time.Duration, logger *slog.Logger) (*Store, error) {
	transport := &http.Transport{
		// Настройка пула idle-соединений для эффективного переиспользования
		MaxIdleConnsPerHost: 10,
	}

	if caCertPath != "" {
		tlsConfig, err := buildTLSConfig(caCertPath)
		if err != nil {
			return nil, fmt.Errorf("загрузка CA-сертификата хранилища: %w", err)
		}
		transport.TLSClientConfig = tlsConfig
		logger.Info("CA-сертификат хранилища добавлен в пул доверия",
			slog.String("ca_cert", caCertPath),
		)
	}

	return &Store{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		baseURL:   strings.TrimRight(baseURL, "/"),
		container: container,
		token:     token,
		logger:    logger.With(slog.String("component", "remotestore")),
	}, nil
}

// Put загружает содержимое reader через HTTP PUT.
// Возвращает полный URL объекта в качестве локатора.
func (s *Store) Put(ctx context.Context, ownerID, filename string, r io.Reader) (string, error) {
	name := docstore.SanitizeFilename(filename)
	objectURL := s.objectURL(ownerID + "/" + name)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, objectURL, r)
	if err != nil {
		return "", fmt.Errorf("создание запроса Put: %w", err)
	}
	s.authorize(req)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("запрос Put к хранилищу: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated &&
		resp.StatusCode != http.StatusNoContent {
		return "", fmt.Errorf("хранилище вернуло статус %d при загрузке", resp.StatusCode)
	}

	s.logger.Debug("Документ загружен в удалённое хранилище",
		slog.String("locator", objectURL),
	)

	return objectURL, nil
}

// Metadata выполняет HEAD-запрос и возвращает метаданные объекта.
func (s *Store) Metadata(ctx context.Context, locator string) (*docstore.ObjectInfo, error) {
	path, err := docstore.ParseLocator(locator, s.container)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.objectURL(path), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("создание запроса Metadata: %w", err)
	}
	s.authorize(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("запрос Metadata к хранилищу: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, docstore.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("хранилище вернуло статус %d для метаданных", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &docstore.ObjectInfo{
		ContentType: contentType,
		Size:        resp.ContentLength,
	}, nil
}

// Open выполняет streaming-загрузку объекта.
// Вызывающий код обязан закрыть ReadCloser.
func (s *Store) Open(ctx context.Context, locator string) (io.ReadCloser, error) {
	path, err := docstore.ParseLocator(locator, s.container)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.objectURL(path), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("создание запроса Open: %w", err)
	}
	s.authorize(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("запрос Open к хранилищу: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, docstore.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("хранилище вернуло статус %d при скачивании", resp.StatusCode)
	}

	// Не закрываем resp.Body — вызывающий код отвечает за это (streaming)
	return resp.Body, nil
}

// objectURL собирает полный URL объекта с экранированием сегментов пути.
func (s *Store) objectURL(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.container, strings.Join(segments, "/"))
}

func (s *Store) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.token)
}

// buildTLSConfig создаёт TLS-конфигурацию с кастомным CA-сертификатом.
func buildTLSConfig(caCertPath string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("чтение CA-сертификата: %w", err)
	}

	caCertPool, err := x509.SystemCertPool()
	if err != nil {
		caCertPool = x509.NewCertPool()
	}
	caCertPool.AppendCertsFromPEM(caCert)

	return &tls.Config{
		RootCAs: caCertPool,
	}, nil
}
