package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/restopanel-system/internal/backend"
	"github.com/mmeshcher/restopanel-system/internal/model"
	"github.com/mmeshcher/restopanel-system/internal/session"
	"github.com/mmeshcher/restopanel-system/internal/validation"
)

// defaultCategories — категории, создаваемые для нового ресторана.
var defaultCategories = []string{"Entradas", "Platos Principales", "Bebidas", "Postres"}

// Restaurants реализует работу с рестораном, включая первичную настройку
// для нового управляющего.
type Restaurants struct {
	backend Backend
	store   *session.Store
	logger  *zap.Logger
}

// NewRestaurants создаёт сервис ресторанов.
func NewRestaurants(b Backend, store *session.Store, logger *zap.Logger) *Restaurants {
	return &Restaurants{backend: b, store: store, logger: logger}
}

// Get возвращает ресторан текущего пользователя.
func (rs *Restaurants) Get(ctx context.Context, s *session.Session) (*model.Restaurant, error) {
	if !s.HasRestaurant() {
		return nil, ErrNoRestaurant
	}
	return rs.backend.GetRestaurant(ctx, s, s.RestaurantID())
}

// Update обновляет ресторан.
func (rs *Restaurants) Update(ctx context.Context, s *session.Session, id string, req backend.UpdateRestaurantRequest) (*model.Restaurant, error) {
	return rs.backend.UpdateRestaurant(ctx, s, id, req)
}

// Setup выполняет онбординг: создаёт ресторан, привязывает его к текущему
// пользователю и наполняет меню начальными данными.
func (rs *Restaurants) Setup(ctx context.Context, s *session.Session, name, paymentMethods string) (*model.Restaurant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &validation.Error{Field: "name", Reason: "restaurant name is required"}
	}

	// Окно подписки: месяц с момента создания.
	start := time.Now()
	end := start.AddDate(0, 1, 0)

	rest, err := rs.backend.CreateRestaurant(ctx, s, backend.CreateRestaurantRequest{
		Name:              name,
		PaymentMethods:    strings.TrimSpace(paymentMethods),
		SubscriptionStart: start,
		SubscriptionEnd:   end,
	})
	if err != nil {
		return nil, err
	}

	if _, err := rs.backend.UpdateUser(ctx, s, s.Account.ID, backend.UpdateUserRequest{RestaurantID: rest.ID}); err != nil {
		return nil, fmt.Errorf("assign restaurant to user: %w", err)
	}
	rs.store.SetRestaurant(s.Token, rest.ID)

	rs.seedInitialData(ctx, s, rest.ID)
	return rest, nil
}

// seedInitialData наполняет новый ресторан стартовым меню.
// Ошибки отдельных элементов не прерывают настройку.
func (rs *Restaurants) seedInitialData(ctx context.Context, s *session.Session, restaurantID string) {
	var created []model.Category
	for _, name := range defaultCategories {
		c, err := rs.backend.CreateCategory(ctx, s, backend.CreateCategoryRequest{
			Name:         name,
			RestaurantID: restaurantID,
		})
		if err != nil {
			rs.logger.Warn("seed category failed", zap.String("category", name), zap.Error(err))
			continue
		}
		created = append(created, *c)
	}

	if len(created) == 0 {
		return
	}

	_, err := rs.backend.CreateProduct(ctx, s, backend.CreateProductRequest{
		Name:         "Producto de Ejemplo",
		CategoryID:   created[0].ID,
		RestaurantID: restaurantID,
		Price:        10000,
	})
	if err != nil {
		rs.logger.Warn("seed product failed", zap.Error(err))
	}
}
