package paymentservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с PaymentService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента PaymentService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// ReleaseAuthorization снимает холд по внешней авторизации платежа
func (c *Client) ReleaseAuthorization(ctx context.Context, authRef string) error {
	url := fmt.Sprintf("%s/internal/authorizations/%s/release", c.baseURL, authRef)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return ErrAuthorizationNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var release ReleaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}

// ReleaseAuthorizationWithGracefulDegradation снимает холд с graceful degradation
// Любая ошибка, кроме отсутствия авторизации, превращается в ErrServiceDegraded:
// вызывающая сторона логирует её и продолжает работу, отмена бронирования не откатывается
func (c *Client) ReleaseAuthorizationWithGracefulDegradation(ctx context.Context, authRef string) error {
	c.log.Info("Releasing payment authorization %s", authRef)

	err := c.ReleaseAuthorization(ctx, authRef)
	if err != nil {
		if errors.Is(err, ErrAuthorizationNotFound) {
			// Холд уже снят или не существовал - для отмены это не проблема
			c.log.Warn("Payment authorization %s not found, treating as already released", authRef)
			return nil
		}

		c.log.Error("PaymentService unavailable, applying graceful degradation for auth_ref=%s: %v", authRef, err)
		return fmt.Errorf("%w: auth_ref=%s, error=%v", ErrServiceDegraded, authRef, err)
	}

	c.log.Info("Successfully released payment authorization %s", authRef)
	return nil
}
