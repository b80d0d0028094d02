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

// Send отправляет уведомление пользователю
func (c *Client) Send(ctx context.Context, n Notification) error {
	url := fmt.Sprintf("%s/internal/notifications", c.baseURL)

	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal notification: %v", ErrInternal, err)
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

// SendWithGracefulDegradation отправляет уведомление с graceful degradation
// Любая ошибка превращается в ErrServiceDegraded: уведомления best-effort,
// их неудача логируется и не влияет на исход основной операции
func (c *Client) SendWithGracefulDegradation(ctx context.Context, n Notification) error {
	err := c.Send(ctx, n)
	if err != nil {
		c.log.Error("NotifyService unavailable, applying graceful degradation for user=%d, reservation=%s: %v",
			n.UserID, n.ReservationRef, err)
		return fmt.Errorf("%w: user=%d, error=%v", ErrServiceDegraded, n.UserID, err)
	}

	c.log.Info("Notification %s sent to user=%d for reservation=%s", n.Template, n.UserID, n.ReservationRef)
	return nil
}
