package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// defaultTimeout ограничивает каждый сетевой вызов: зависший запрос не должен
// блокировать loading-состояние бесконечно.
const defaultTimeout = 15 * time.Second

// Config — явная конфигурация клиента backend-API.
type Config struct {
	// BaseURL — адрес API, например https://api.example.com.
	BaseURL string
	// Timeout на один запрос; 0 означает дефолтные 15 секунд.
	Timeout time.Duration
	Logger  *log.Entry
}

// Client — клиент REST-бэкенда витрины с cookie-сессией.
// Все запросы идут с cookie jar (аналог credentials: include), явный
// инстанс конструируется с конфигурацией и инжектируется — без скрытого
// глобального состояния.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Entry
}

// New создаёт клиент с cookie jar и декоратором refresh-повтора на 401.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.WithField("component", "api-client")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{baseURL: baseURL, logger: logger}
	c.httpClient = &http.Client{
		Timeout: timeout,
		Jar:     jar,
		Transport: &authRefreshTransport{
			base:    http.DefaultTransport,
			jar:     jar,
			refresh: c.refreshSession,
			logger:  logger,
		},
	}
	return c, nil
}

// refreshSession обновляет сессионные cookie; вызывается транспортом
// не более одного раза на запрос.
func (c *Client) refreshSession(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/auth/refresh/", nil)
	if err != nil {
		return err
	}
	// Напрямую через базовый транспорт, но с общим cookie jar.
	resp, err := (&http.Client{Jar: c.httpClient.Jar, Timeout: c.httpClient.Timeout}).Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("refresh returned status %d", resp.StatusCode)
	}
	return nil
}

// do выполняет запрос с JSON-телом и декодирует JSON-ответ в out.
// Любой не-2xx статус превращается в *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, requiresAuth bool) error {
	if requiresAuth {
		ctx = withAuthRequired(ctx)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return parseAPIError(resp.StatusCode, data)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// User — профиль пользователя из auth-ответов.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `json:"is_active,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// AuthResponse — ответ login/register: пользователь + сообщение.
type AuthResponse struct {
	User    User   `json:"user"`
	Message string `json:"message"`
}

// MessageResponse — ответы, состоящие из одного сообщения.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterRequest — тело регистрации.
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
}

// Register регистрирует нового пользователя.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/register/", req, &out, false)
	return out, err
}

// Login выполняет вход; сессионные cookie выставляет сервер.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login/", body, &out, false)
	return out, err
}

// Logout завершает сессию.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/logout/", nil, nil, true)
}

// Me возвращает текущего пользователя.
func (c *Client) Me(ctx context.Context) (User, error) {
	var out User
	err := c.do(ctx, http.MethodGet, "/api/v1/auth/me/", nil, &out, true)
	return out, err
}

// Refresh явно обновляет сессию (помимо автоматического refresh на 401).
func (c *Client) Refresh(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/refresh/", nil, nil, false)
}

// PasswordResetRequest запрашивает письмо для сброса пароля.
func (c *Client) PasswordResetRequest(ctx context.Context, email string) (MessageResponse, error) {
	var out MessageResponse
	body := map[string]string{"email": email}
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/password/reset/", body, &out, false)
	return out, err
}

// PasswordResetConfirm завершает сброс пароля по токену из письма.
func (c *Client) PasswordResetConfirm(ctx context.Context, uid, token, password, passwordConfirm string) error {
	body := map[string]string{
		"uid":              uid,
		"token":            token,
		"password":         password,
		"password_confirm": passwordConfirm,
	}
	return c.do(ctx, http.MethodPost, "/api/v1/auth/password/reset/confirm/", body, nil, false)
}

// ChangePassword меняет пароль аутентифицированного пользователя.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword, newPasswordConfirm string) error {
	body := map[string]string{
		"old_password":         oldPassword,
		"new_password":         newPassword,
		"new_password_confirm": newPasswordConfirm,
	}
	return c.do(ctx, http.MethodPost, "/api/v1/auth/password/change/", body, nil, true)
}

// FavoriteProduct — товар из списка избранного.
type FavoriteProduct struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Price         string `json:"price"`
	DiscountPrice string `json:"discount_price"`
	StockQuantity int    `json:"stock_quantity"`
}

// Favorites возвращает избранные товары пользователя.
func (c *Client) Favorites(ctx context.Context) ([]FavoriteProduct, error) {
	var out []FavoriteProduct
	err := c.do(ctx, http.MethodGet, "/api/v1/favorites/", nil, &out, true)
	return out, err
}

// AddFavorite добавляет товар в избранное.
func (c *Client) AddFavorite(ctx context.Context, productID string) error {
	body := map[string]string{"furniture_id": productID}
	return c.do(ctx, http.MethodPost, "/api/v1/favorites/", body, nil, true)
}

// RemoveFavorite удаляет товар из избранного.
func (c *Client) RemoveFavorite(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/favorites/"+productID+"/", nil, nil, true)
}

// IsFavorite проверяет, находится ли товар в избранном.
func (c *Client) IsFavorite(ctx context.Context, productID string) (bool, error) {
	var out struct {
		IsFavorite bool `json:"is_favorite"`
	}
	err := c.do(ctx, http.MethodGet, "/api/v1/favorites/"+productID+"/check/", nil, &out, true)
	return out.IsFavorite, err
}
