package notifyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с NotifyService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента NotifyService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Dispatch отправляет запрос на уведомление пользователя
func (c *Client) Dispatch(ctx context.Context, req DispatchRequest) error {
	url := fmt.Sprintf("%s/internal/notifications", c.baseURL)

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusCreated:
		return nil
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}
}

// DispatchBestEffort отправляет уведомление с graceful degradation
// При недоступности NotifyService ошибка логируется и подменяется
// ErrServiceDegraded: решение об уведомлении принято, доставка потеряна
func (c *Client) DispatchBestEffort(ctx context.Context, req DispatchRequest) error {
	c.log.Info("Dispatching notification kind=%s to user=%d for lesson=%d",
		req.Kind, req.RecipientUserID, req.LessonID)

	if err := c.Dispatch(ctx, req); err != nil {
		c.log.Error("NotifyService unavailable, dropping notification kind=%s for user=%d: %v",
			req.Kind, req.RecipientUserID, err)
		return fmt.Errorf("%w: kind=%s, user=%d, error=%v", ErrServiceDegraded, req.Kind, req.RecipientUserID, err)
	}

	return nil
}
