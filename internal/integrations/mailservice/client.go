package mailservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с MailService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента MailService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Send отправляет письмо пользователю
func (c *Client) Send(ctx context.Context, request *SendRequest) error {
	url := fmt.Sprintf("%s/internal/mail/send", c.baseURL)

	payload, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	return nil
}

// SendBestEffort отправляет письмо, не прерывая вызывающий поток при ошибке.
// Почта вторична по отношению к каскаду, сбой отправки только логируется.
func (c *Client) SendBestEffort(ctx context.Context, request *SendRequest) {
	if err := c.Send(ctx, request); err != nil {
		c.log.Warn("MailService send failed for user_id=%d, template=%s: %v", request.UserID, request.Template, err)
		return
	}

	c.log.Info("Mail queued for user_id=%d, template=%s", request.UserID, request.Template)
}
