package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nethra/sentinel/pkg/api"
)

// RequestError представляет ошибку, возвращенную сервером
type RequestError struct {
	StatusCode int              // HTTP статус
	Message    string           // сообщение из тела ответа
	Fields     []api.FieldError // ошибки валидации по полям, если есть
}

// Error implements the error interface
func (e *RequestError) Error() string {
	if len(e.Fields) > 0 {
		msgs := make([]string, 0, len(e.Fields))
		for _, fe := range e.Fields {
			msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
		}
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, strings.Join(msgs, "; "))
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовок Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/register", "", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/login", "", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// GetProfile запрашивает профиль текущего пользователя
func (c *Client) GetProfile(ctx context.Context, token string) (*api.ProfileResponse, error) {
	var resp api.ProfileResponse
	if err := c.doRequest(ctx, http.MethodGet, "/profile", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	return &resp, nil
}

// UpdateProfile частично обновляет профиль текущего пользователя
func (c *Client) UpdateProfile(ctx context.Context, token string, req api.UpdateProfileRequest) (*api.ProfileResponse, error) {
	var resp api.ProfileResponse
	if err := c.doRequest(ctx, http.MethodPut, "/profile", token, req, &resp); err != nil {
		return nil, fmt.Errorf("update profile request failed: %w", err)
	}
	return &resp, nil
}

// ChangePassword меняет пароль текущего пользователя
func (c *Client) ChangePassword(ctx context.Context, token string, req api.ChangePasswordRequest) error {
	if err := c.doRequest(ctx, http.MethodPost, "/password", token, req, nil); err != nil {
		return fmt.Errorf("change password request failed: %w", err)
	}
	return nil
}

// doRequest выполняет HTTP запрос
// Непустой token добавляется как Bearer в Authorization
func (c *Client) doRequest(ctx context.Context, method, path, token string, body, result interface{}) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Ошибочный статус превращаем в типизированную ошибку
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// parseError декодирует тело ошибки сервера
// Поддерживает оба формата: {message} и {errors:[{field,message}]}
func parseError(statusCode int, body []byte) *RequestError {
	reqErr := &RequestError{StatusCode: statusCode}

	var validationResp api.ValidationErrorResponse
	if err := json.Unmarshal(body, &validationResp); err == nil && len(validationResp.Errors) > 0 {
		reqErr.Fields = validationResp.Errors
		return reqErr
	}

	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		reqErr.Message = errResp.Message
		return reqErr
	}

	reqErr.Message = strings.TrimSpace(string(body))
	return reqErr
}
