package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Лимит длины текста приглашения на стороне сети.
const inviteMessageLimit = 300

// Client — HTTP клиент messaging-провайдера (Unipile-совместимый API).
//
// Аутентификация — статический ключ в заголовке X-API-KEY. Все вызовы
// ограничены таймаутом клиента; таймаут трактуется вызывающим кодом
// как transient ошибка.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// Config — конфигурация Client.
type Config struct {
	// BaseURL — адрес API провайдера (https://{dsn}).
	BaseURL string

	// APIKey — статический ключ API.
	APIKey string

	// Timeout — таймаут одного HTTP вызова (default: 30s).
	Timeout time.Duration

	// Logger — логгер.
	Logger *slog.Logger
}

// NewClient создаёт новый Client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// NewClientFromEnv создаёт Client из переменных окружения
// PROVIDER_DSN и PROVIDER_API_KEY.
func NewClientFromEnv(logger *slog.Logger) *Client {
	return NewClient(Config{
		BaseURL: "https://" + os.Getenv("PROVIDER_DSN"),
		APIKey:  os.Getenv("PROVIDER_API_KEY"),
		Logger:  logger,
	})
}

// Profile — профиль пользователя сети, как его отдаёт провайдер.
type Profile struct {
	// ProviderID — canonical идентификатор пользователя.
	ProviderID string `json:"provider_id"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// NetworkDistance — дистанция до пользователя
	// (FIRST_DEGREE означает уже установленный контакт).
	NetworkDistance string `json:"network_distance"`

	// Invitation — состояние ранее отправленного приглашения, если было.
	Invitation *Invitation `json:"invitation,omitempty"`
}

// Invitation — состояние приглашения.
// Статусы: PENDING, WITHDRAWN.
type Invitation struct {
	Status string `json:"status"`
}

// Состояния профиля, на которые реагируют pre-send проверки.
const (
	NetworkDistanceFirstDegree = "FIRST_DEGREE"
	InvitationStatusPending    = "PENDING"
	InvitationStatusWithdrawn  = "WITHDRAWN"
)

// GetProfileByProviderID возвращает профиль по canonical идентификатору.
func (c *Client) GetProfileByProviderID(ctx context.Context, accountID, providerID string) (*Profile, error) {
	endpoint := fmt.Sprintf("/api/v1/users/profile?account_id=%s&provider_id=%s",
		url.QueryEscape(accountID), url.QueryEscape(providerID))

	var profile Profile
	if err := c.getJSON(ctx, endpoint, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfileByVanity возвращает профиль по vanity идентификатору из URL.
// Используется legacy endpoint: identifier-вариант ломается на vanity
// с цифрами.
func (c *Client) GetProfileByVanity(ctx context.Context, accountID, vanity string) (*Profile, error) {
	endpoint := fmt.Sprintf("/api/v1/users/%s?account_id=%s",
		url.PathEscape(vanity), url.QueryEscape(accountID))

	var profile Profile
	if err := c.getJSON(ctx, endpoint, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SendInvitation отправляет connection request.
func (c *Client) SendInvitation(ctx context.Context, accountID, providerID, message string) error {
	if len(message) > inviteMessageLimit {
		message = message[:inviteMessageLimit]
	}

	body, err := json.Marshal(map[string]string{
		"account_id":  accountID,
		"provider_id": providerID,
		"message":     message,
	})
	if err != nil {
		return fmt.Errorf("marshal invite body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/users/invite", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build invite request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, nil)
}

// SendMessage отправляет direct message: создаёт чат с первым сообщением
// одним вызовом. API принимает только multipart/form-data.
func (c *Client) SendMessage(ctx context.Context, accountID, attendeeProviderID, text string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"account_id":    accountID,
		"attendees_ids": attendeeProviderID,
		"text":          text,
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("write form field %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close form writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/chats", &buf)
	if err != nil {
		return fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.do(req, nil)
}

// getJSON выполняет GET и декодирует JSON ответ.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

// do выполняет запрос с общими заголовками и разбирает ошибки API.
func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// Сетевые ошибки и таймауты — transient
		return &Error{Message: err.Error(), transient: true}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Message: err.Error(), transient: true}
	}

	if resp.StatusCode >= 400 {
		apiErr := parseAPIError(resp.StatusCode, body)
		c.logger.Debug("provider call failed",
			"method", req.Method,
			"url", req.URL.Path,
			"status", resp.StatusCode,
			"error", apiErr.Message,
		)
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
