package riskadvisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с моделью-советником оценки рисков
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    Metrics
	log        Logger
}

// NewClient создает новый экземпляр клиента RiskAdvisor
func NewClient(baseURL string, timeout time.Duration, metrics Metrics, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		log:     log,
	}
}

// Assess запрашивает оценку риска для заявки на бронь
func (c *Client) Assess(ctx context.Context, request *AssessRequest) (*Assessment, error) {
	url := fmt.Sprintf("%s/internal/assess", c.baseURL)

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var assessment Assessment
	if err := json.NewDecoder(resp.Body).Decode(&assessment); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &assessment, nil
}

// AssessWithGracefulDegradation запрашивает оценку риска с graceful degradation
// При недоступности советника возвращает ErrAdvisorUnavailable, решение остается за правилами
func (c *Client) AssessWithGracefulDegradation(ctx context.Context, request *AssessRequest) (*Assessment, error) {
	c.log.Info("Requesting risk assessment for user_id=%d, facility_id=%d", request.UserID, request.FacilityID)

	assessment, err := c.Assess(ctx, request)
	if err != nil {
		// Советник никогда не блокирует обработку заявки.
		// При любой ошибке (недоступность, timeout, ошибки парсинга) возвращаем
		// ErrAdvisorUnavailable и оставляем решение за движком правил.
		c.log.Warn("RiskAdvisor unavailable, falling back to rule-only decision for user_id=%d: %v", request.UserID, err)
		if c.metrics != nil {
			c.metrics.IncAdvisorRequest("unavailable")
		}
		return nil, fmt.Errorf("%w: user_id=%d, error=%v", ErrAdvisorUnavailable, request.UserID, err)
	}

	c.log.Info("Risk assessment received for user_id=%d: risk_level=%s, confidence=%.2f", request.UserID, assessment.RiskLevel, assessment.Confidence)
	if c.metrics != nil {
		c.metrics.IncAdvisorRequest("ok")
	}
	return assessment, nil
}
