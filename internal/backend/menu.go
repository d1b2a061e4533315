package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/mmeshcher/restopanel-system/internal/model"
	"github.com/mmeshcher/restopanel-system/internal/session"
)

// CreateCategoryRequest описывает данные создания категории меню.
type CreateCategoryRequest struct {
	Name         string `json:"name"`
	RestaurantID string `json:"id_restaurante"`
}

// UpdateCategoryRequest описывает частичное обновление категории.
type UpdateCategoryRequest struct {
	Name string `json:"name,omitempty"`
}

// CreateProductRequest описывает данные создания продукта.
type CreateProductRequest struct {
	Name         string  `json:"name"`
	CategoryID   string  `json:"id_tipo"`
	RestaurantID string  `json:"id_restaurante"`
	Price        float64 `json:"precio"`
	Description  string  `json:"descripcion,omitempty"`
}

// UpdateProductRequest описывает частичное обновление продукта.
type UpdateProductRequest struct {
	Name        string   `json:"name,omitempty"`
	CategoryID  string   `json:"id_tipo,omitempty"`
	Price       *float64 `json:"precio,omitempty"`
	Description string   `json:"descripcion,omitempty"`
}

// ListCategories возвращает все категории, доступные пользователю.
func (c *Client) ListCategories(ctx context.Context, s *session.Session) ([]model.Category, error) {
	return call[[]model.Category](ctx, c, s, http.MethodGet, "/tipo-productos", nil)
}

// CreateCategory создаёт категорию меню.
func (c *Client) CreateCategory(ctx context.Context, s *session.Session, req CreateCategoryRequest) (*model.Category, error) {
	cat, err := call[model.Category](ctx, c, s, http.MethodPost, "/tipo-productos", req)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// UpdateCategory обновляет категорию меню.
func (c *Client) UpdateCategory(ctx context.Context, s *session.Session, id string, req UpdateCategoryRequest) (*model.Category, error) {
	cat, err := call[model.Category](ctx, c, s, http.MethodPut, "/tipo-productos/"+url.PathEscape(id), req)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// DeleteCategory удаляет категорию меню. Продукты категории не удаляются.
func (c *Client) DeleteCategory(ctx context.Context, s *session.Session, id string) error {
	_, err := call[struct{}](ctx, c, s, http.MethodDelete, "/tipo-productos/"+url.PathEscape(id), nil)
	return err
}

// ListProducts возвращает все продукты, доступные пользователю.
func (c *Client) ListProducts(ctx context.Context, s *session.Session) ([]model.Product, error) {
	return call[[]model.Product](ctx, c, s, http.MethodGet, "/productos", nil)
}

// CreateProduct создаёт продукт.
func (c *Client) CreateProduct(ctx context.Context, s *session.Session, req CreateProductRequest) (*model.Product, error) {
	p, err := call[model.Product](ctx, c, s, http.MethodPost, "/productos", req)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct обновляет продукт.
func (c *Client) UpdateProduct(ctx context.Context, s *session.Session, id string, req UpdateProductRequest) (*model.Product, error) {
	p, err := call[model.Product](ctx, c, s, http.MethodPut, "/productos/"+url.PathEscape(id), req)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProduct удаляет продукт.
func (c *Client) DeleteProduct(ctx context.Context, s *session.Session, id string) error {
	_, err := call[struct{}](ctx, c, s, http.MethodDelete, "/productos/"+url.PathEscape(id), nil)
	return err
}

// DownloadProductTemplate скачивает шаблон массовой загрузки продуктов.
// Ответ бинарный, конверт не используется. Возвращаются данные и content type.
func (c *Client) DownloadProductTemplate(ctx context.Context, s *session.Session) ([]byte, string, error) {
	if c == nil || c.baseURL == "" {
		return nil, "", fmt.Errorf("backend client not configured")
	}
	if s == nil || s.Token == "" {
		return nil, "", ErrNoToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/productos/download/excel", nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, "", newStatusError(resp, raw)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return raw, contentType, nil
}
