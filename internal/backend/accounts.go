package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmeshcher/restopanel-system/internal/model"
	"github.com/mmeshcher/restopanel-system/internal/session"
)

// LoginResult описывает ответ бэкенда на запрос аутентификации.
// Этот ответ единственный не использует общий конверт.
type LoginResult struct {
	Message string        `json:"message"`
	User    model.Account `json:"user"`
	Token   string        `json:"token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login выполняет аутентификацию по email и паролю.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	raw, err := c.do(ctx, nil, http.MethodPost, "/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var res LoginResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if res.Token == "" {
		return nil, &LogicError{Message: res.Message}
	}

	return &res, nil
}

// CreateUserRequest описывает данные создания сотрудника.
type CreateUserRequest struct {
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Password     string     `json:"password"`
	Username     string     `json:"user_name"`
	Phone        string     `json:"phone_number"`
	Address      string     `json:"address"`
	Role         model.Role `json:"tipe"`
	RestaurantID string     `json:"id_restaurante,omitempty"`
}

// UpdateUserRequest описывает частичное обновление сотрудника.
type UpdateUserRequest struct {
	Name         string     `json:"name,omitempty"`
	Email        string     `json:"email,omitempty"`
	Password     string     `json:"password,omitempty"`
	Username     string     `json:"user_name,omitempty"`
	Phone        string     `json:"phone_number,omitempty"`
	Address      string     `json:"address,omitempty"`
	Role         model.Role `json:"tipe,omitempty"`
	IsActive     *bool      `json:"is_active,omitempty"`
	RestaurantID string     `json:"id_restaurante,omitempty"`
}

// ListUsers возвращает сотрудников, доступных пользователю.
func (c *Client) ListUsers(ctx context.Context, s *session.Session) ([]model.Account, error) {
	return call[[]model.Account](ctx, c, s, http.MethodGet, "/users", nil)
}

// GetUser возвращает сотрудника по идентификатору.
func (c *Client) GetUser(ctx context.Context, s *session.Session, id string) (*model.Account, error) {
	u, err := call[model.Account](ctx, c, s, http.MethodGet, "/users/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser создаёт сотрудника.
func (c *Client) CreateUser(ctx context.Context, s *session.Session, req CreateUserRequest) (*model.Account, error) {
	u, err := call[model.Account](ctx, c, s, http.MethodPost, "/users", req)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser обновляет сотрудника.
func (c *Client) UpdateUser(ctx context.Context, s *session.Session, id string, req UpdateUserRequest) (*model.Account, error) {
	u, err := call[model.Account](ctx, c, s, http.MethodPut, "/users/"+url.PathEscape(id), req)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser удаляет сотрудника.
func (c *Client) DeleteUser(ctx context.Context, s *session.Session, id string) error {
	_, err := call[struct{}](ctx, c, s, http.MethodDelete, "/users/"+url.PathEscape(id), nil)
	return err
}

// CreateRestaurantRequest описывает данные создания ресторана.
type CreateRestaurantRequest struct {
	Name              string    `json:"name"`
	PaymentMethods    string    `json:"metodos_pago"`
	SubscriptionStart time.Time `json:"fecha_inicio_suscripcion"`
	SubscriptionEnd   time.Time `json:"fecha_fin_suscripcion"`
}

// UpdateRestaurantRequest описывает частичное обновление ресторана.
type UpdateRestaurantRequest struct {
	Name           string `json:"name,omitempty"`
	PaymentMethods string `json:"metodos_pago,omitempty"`
}

// GetRestaurant возвращает ресторан по идентификатору.
func (c *Client) GetRestaurant(ctx context.Context, s *session.Session, id string) (*model.Restaurant, error) {
	r, err := call[model.Restaurant](ctx, c, s, http.MethodGet, "/restaurantes/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRestaurant создаёт ресторан.
func (c *Client) CreateRestaurant(ctx context.Context, s *session.Session, req CreateRestaurantRequest) (*model.Restaurant, error) {
	r, err := call[model.Restaurant](ctx, c, s, http.MethodPost, "/restaurantes", req)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRestaurant обновляет ресторан.
func (c *Client) UpdateRestaurant(ctx context.Context, s *session.Session, id string, req UpdateRestaurantRequest) (*model.Restaurant, error) {
	r, err := call[model.Restaurant](ctx, c, s, http.MethodPut, "/restaurantes/"+url.PathEscape(id), req)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
