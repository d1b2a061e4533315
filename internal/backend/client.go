// Package backend содержит клиент REST API удалённого бэкенда ресторана.
//
// Бэкенд оборачивает ответы в конверт {isSuccess, message, data}. Флаг
// isSuccess авторитетен даже при статусе 2xx: такой ответ с isSuccess=false
// считается логическим отказом и несёт сообщение из конверта.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmeshcher/restopanel-system/internal/session"
)

// Ошибки клиента бэкенда.
var (
	// ErrNoToken возвращается, если в сессии отсутствует токен авторизации.
	ErrNoToken = errors.New("missing auth token")
	// ErrUnavailable возвращается при сетевой ошибке обращения к бэкенду.
	ErrUnavailable = errors.New("backend unavailable")
)

// StatusError описывает ответ бэкенда с неуспешным HTTP-статусом.
// Message заполняется из JSON-тела ошибки, если бэкенд его прислал.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend status %d", e.Code)
}

// LogicError описывает логический отказ бэкенда: HTTP 2xx с isSuccess=false.
type LogicError struct {
	Message string
}

func (e *LogicError) Error() string {
	return "backend rejected request: " + e.Message
}

// Client инкапсулирует HTTP-взаимодействие с бэкендом ресторана.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент бэкенда по указанному базовому адресу.
func NewClient(baseURL string) *Client {
	base := strings.TrimRight(baseURL, "/")
	if base != "" && !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type envelope struct {
	IsSuccess bool            `json:"isSuccess"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
}

// do выполняет запрос к бэкенду и возвращает тело успешного HTTP-ответа.
// Сессия может быть nil только для запросов, не требующих авторизации.
func (c *Client) do(ctx context.Context, s *session.Session, method, path string, body any) ([]byte, error) {
	if c == nil || c.baseURL == "" {
		return nil, fmt.Errorf("backend client not configured")
	}
	if s != nil && s.Token == "" {
		return nil, ErrNoToken
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s != nil {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		return nil, newStatusError(resp, raw)
	}

	return raw, nil
}

// newStatusError извлекает сообщение об ошибке из тела ответа, если оно в JSON.
func newStatusError(resp *http.Response, raw []byte) error {
	se := &StatusError{Code: resp.StatusCode}

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &body); err == nil {
			se.Message = body.Message
		}
	}

	return se
}

// call выполняет запрос, разбирает конверт и декодирует поле data.
func call[T any](ctx context.Context, c *Client, s *session.Session, method, path string, body any) (T, error) {
	var zero T

	raw, err := c.do(ctx, s, method, path, body)
	if err != nil {
		return zero, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return zero, fmt.Errorf("decode response: %w", err)
	}
	if !env.IsSuccess {
		return zero, &LogicError{Message: env.Message}
	}

	var data T
	if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return zero, fmt.Errorf("decode data: %w", err)
		}
	}

	return data, nil
}
