// Пакет enrichment — HTTP-клиент уведомления конвейера обогащения.
// Модуль сообщает конвейеру о появлении документа у заявки; конвейер
// асинхронно извлекает текст, строит резюме и возвращает его через
// callback PATCH /api/v1/submissions/{id}/summary.
package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// notifyRequest — тело уведомления конвейера обогащения.
type notifyRequest struct {
	SubmissionID    string `json:"submission_id"`
	DocumentLocator string `json:"document_locator"`
}

// Client — клиент конвейера обогащения документов.
// Пустой pipelineURL означает, что обогащение выключено: Notify
// становится no-op, Enabled возвращает false.
type Client struct {
	httpClient  *http.Client
	pipelineURL string
	token       string
	logger      *slog.Logger
}

// New создаёт клиент конвейера обогащения.
func New(pipelineURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		pipelineURL: strings.TrimRight(pipelineURL, "/"),
		token:       token,
		logger:      logger.With(slog.String("component", "enrichment_client")),
	}
}

// Enabled сообщает, настроен ли конвейер обогащения.
func (c *Client) Enabled() bool {
	return c.pipelineURL != ""
}

// Notify отправляет конвейеру уведомление о новом документе заявки.
// Ошибка уведомления не фатальна для вызывающего кода: заявка уже
// сохранена, резюме — best-effort.
func (c *Client) Notify(ctx context.Context, submissionID, documentLocator string) error {
	if !c.Enabled() {
		return nil
	}

	body, err := json.Marshal(notifyRequest{
		SubmissionID:    submissionID,
		DocumentLocator: documentLocator,
	})
	if err != nil {
		return fmt.Errorf("сериализация уведомления: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.pipelineURL+"/api/v1/documents/notify", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("создание запроса Notify: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("запрос Notify к конвейеру: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("конвейер вернул статус %d на уведомление", resp.StatusCode)
	}

	c.logger.Debug("Конвейер обогащения уведомлён",
		slog.String("submission_id", submissionID),
	)
	return nil
}
