// Package service реализует бизнес-логику панели управления рестораном.
//
// Вся долговременная правда живёт в удалённом бэкенде; сервисы держат лишь
// снимок данных в памяти. Дисциплина одна для всех операций: мутация в
// бэкенде, затем полная перезагрузка снимка. Локальных оптимистичных
// обновлений нет.
package service

import (
	"context"
	"errors"

	"github.com/mmeshcher/restopanel-system/internal/backend"
	"github.com/mmeshcher/restopanel-system/internal/model"
	"github.com/mmeshcher/restopanel-system/internal/session"
)

// Backend описывает контракт удалённого хранилища, используемый сервисами панели.
type Backend interface {
	Login(ctx context.Context, email, password string) (*backend.LoginResult, error)

	ListOrders(ctx context.Context, s *session.Session) ([]model.Order, error)
	CreateOrder(ctx context.Context, s *session.Session, req backend.CreateOrderRequest) (*model.Order, error)
	UpdateOrder(ctx context.Context, s *session.Session, id string, req backend.UpdateOrderRequest) (*model.Order, error)
	DeleteOrder(ctx context.Context, s *session.Session, id string) error

	ListCategories(ctx context.Context, s *session.Session) ([]model.Category, error)
	CreateCategory(ctx context.Context, s *session.Session, req backend.CreateCategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, s *session.Session, id string, req backend.UpdateCategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, s *session.Session, id string) error

	ListProducts(ctx context.Context, s *session.Session) ([]model.Product, error)
	CreateProduct(ctx context.Context, s *session.Session, req backend.CreateProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, s *session.Session, id string, req backend.UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, s *session.Session, id string) error
	DownloadProductTemplate(ctx context.Context, s *session.Session) ([]byte, string, error)

	GetRestaurant(ctx context.Context, s *session.Session, id string) (*model.Restaurant, error)
	CreateRestaurant(ctx context.Context, s *session.Session, req backend.CreateRestaurantRequest) (*model.Restaurant, error)
	UpdateRestaurant(ctx context.Context, s *session.Session, id string, req backend.UpdateRestaurantRequest) (*model.Restaurant, error)

	ListUsers(ctx context.Context, s *session.Session) ([]model.Account, error)
	GetUser(ctx context.Context, s *session.Session, id string) (*model.Account, error)
	CreateUser(ctx context.Context, s *session.Session, req backend.CreateUserRequest) (*model.Account, error)
	UpdateUser(ctx context.Context, s *session.Session, id string, req backend.UpdateUserRequest) (*model.Account, error)
	DeleteUser(ctx context.Context, s *session.Session, id string) error
}

// Ошибки бизнес-логики панели.
var (
	// ErrOrderBusy возвращается, если по заказу уже выполняется операция.
	ErrOrderBusy = errors.New("order mutation already in flight")
	// ErrOrderClosed возвращается при попытке изменить заказ в конечном статусе.
	ErrOrderClosed = errors.New("order already finalized")
	// ErrNotForward возвращается, если смена статуса не продвигает заказ вперёд.
	ErrNotForward = errors.New("order status would not move forward")
	// ErrCategoryExists возвращается, если имя категории уже занято в ресторане.
	ErrCategoryExists = errors.New("category name already used")
	// ErrCategoryNotFound возвращается, если категория не найдена в снимке.
	ErrCategoryNotFound = errors.New("unknown category")
	// ErrNoRestaurant возвращается, если к пользователю не привязан ресторан.
	ErrNoRestaurant = errors.New("user has no restaurant assigned")
)
