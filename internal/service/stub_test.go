package service

import (
	"context"
	"sync"

	"github.com/mmeshcher/restopanel-system/internal/backend"
	"github.com/mmeshcher/restopanel-system/internal/model"
	"github.com/mmeshcher/restopanel-system/internal/session"
)

// stubBackend реализует Backend в памяти для тестов сервисов.
type stubBackend struct {
	mu sync.Mutex

	orders         []model.Order
	listOrdersErr  error
	createOrderErr error
	createdOrders  []backend.CreateOrderRequest
	updateOrderErr error
	updatedOrders  map[string]backend.UpdateOrderRequest
	updateHook     func(id string)
	deleteOrderErr error

	categories        []model.Category
	products          []model.Product
	listCategoriesErr error
	listProductsErr   error

	createCategoryErr error
	categoryErrByName map[string]error
	createdCategories []backend.CreateCategoryRequest

	createProductErr error
	createdProducts  []backend.CreateProductRequest

	restaurant          *model.Restaurant
	createRestaurantErr error
	createdRestaurants  []backend.CreateRestaurantRequest

	users         []model.Account
	createdUsers  []backend.CreateUserRequest
	updateUserErr error
	updatedUsers  map[string]backend.UpdateUserRequest

	loginResult *backend.LoginResult
	loginErr    error

	templateData []byte
	templateType string
	templateErr  error
}

var _ Backend = (*stubBackend)(nil)

func (sb *stubBackend) Login(ctx context.Context, email, password string) (*backend.LoginResult, error) {
	return sb.loginResult, sb.loginErr
}

func (sb *stubBackend) ListOrders(ctx context.Context, s *session.Session) ([]model.Order, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.listOrdersErr != nil {
		return nil, sb.listOrdersErr
	}
	out := make([]model.Order, len(sb.orders))
	copy(out, sb.orders)
	return out, nil
}

func (sb *stubBackend) CreateOrder(ctx context.Context, s *session.Session, req backend.CreateOrderRequest) (*model.Order, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.createOrderErr != nil {
		return nil, sb.createOrderErr
	}
	sb.createdOrders = append(sb.createdOrders, req)

	o := model.Order{
		ID:           "created",
		RestaurantID: req.RestaurantID,
		TableID:      req.TableID,
		Type:         req.Type,
		Status:       req.Status,
		Total:        req.Total,
		Number:       req.Number,
		Address:      req.Address,
	}
	sb.orders = append(sb.orders, o)
	return &o, nil
}

func (sb *stubBackend) UpdateOrder(ctx context.Context, s *session.Session, id string, req backend.UpdateOrderRequest) (*model.Order, error) {
	if sb.updateHook != nil {
		sb.updateHook(id)
	}

	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.updateOrderErr != nil {
		return nil, sb.updateOrderErr
	}
	if sb.updatedOrders == nil {
		sb.updatedOrders = make(map[string]backend.UpdateOrderRequest)
	}
	sb.updatedOrders[id] = req

	for i := range sb.orders {
		if sb.orders[i].ID == id {
			if req.Status != "" {
				sb.orders[i].Status = req.Status
			}
			o := sb.orders[i]
			return &o, nil
		}
	}
	return &model.Order{ID: id, Status: req.Status}, nil
}

func (sb *stubBackend) DeleteOrder(ctx context.Context, s *session.Session, id string) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.deleteOrderErr != nil {
		return sb.deleteOrderErr
	}
	out := sb.orders[:0]
	for _, o := range sb.orders {
		if o.ID != id {
			out = append(out, o)
		}
	}
	sb.orders = out
	return nil
}

func (sb *stubBackend) ListCategories(ctx context.Context, s *session.Session) ([]model.Category, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.listCategoriesErr != nil {
		return nil, sb.listCategoriesErr
	}
	out := make([]model.Category, len(sb.categories))
	copy(out, sb.categories)
	return out, nil
}

func (sb *stubBackend) CreateCategory(ctx context.Context, s *session.Session, req backend.CreateCategoryRequest) (*model.Category, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.createCategoryErr != nil {
		return nil, sb.createCategoryErr
	}
	if err, ok := sb.categoryErrByName[req.Name]; ok {
		return nil, err
	}
	sb.createdCategories = append(sb.createdCategories, req)

	c := model.Category{
		ID:           "cat-" + req.Name,
		Name:         req.Name,
		RestaurantID: req.RestaurantID,
	}
	sb.categories = append(sb.categories, c)
	return &c, nil
}

func (sb *stubBackend) UpdateCategory(ctx context.Context, s *session.Session, id string, req backend.UpdateCategoryRequest) (*model.Category, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	for i := range sb.categories {
		if sb.categories[i].ID == id {
			if req.Name != "" {
				sb.categories[i].Name = req.Name
			}
			c := sb.categories[i]
			return &c, nil
		}
	}
	return &model.Category{ID: id, Name: req.Name}, nil
}

func (sb *stubBackend) DeleteCategory(ctx context.Context, s *session.Session, id string) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	out := sb.categories[:0]
	for _, c := range sb.categories {
		if c.ID != id {
			out = append(out, c)
		}
	}
	sb.categories = out
	return nil
}

func (sb *stubBackend) ListProducts(ctx context.Context, s *session.Session) ([]model.Product, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.listProductsErr != nil {
		return nil, sb.listProductsErr
	}
	out := make([]model.Product, len(sb.products))
	copy(out, sb.products)
	return out, nil
}

func (sb *stubBackend) CreateProduct(ctx context.Context, s *session.Session, req backend.CreateProductRequest) (*model.Product, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.createProductErr != nil {
		return nil, sb.createProductErr
	}
	sb.createdProducts = append(sb.createdProducts, req)

	p := model.Product{
		ID:           "prod-" + req.Name,
		Name:         req.Name,
		CategoryID:   req.CategoryID,
		RestaurantID: req.RestaurantID,
		Price:        req.Price,
		Description:  req.Description,
	}
	sb.products = append(sb.products, p)
	return &p, nil
}

func (sb *stubBackend) UpdateProduct(ctx context.Context, s *session.Session, id string, req backend.UpdateProductRequest) (*model.Product, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	for i := range sb.products {
		if sb.products[i].ID == id {
			if req.Name != "" {
				sb.products[i].Name = req.Name
			}
			if req.CategoryID != "" {
				sb.products[i].CategoryID = req.CategoryID
			}
			if req.Price != nil {
				sb.products[i].Price = *req.Price
			}
			p := sb.products[i]
			return &p, nil
		}
	}
	return &model.Product{ID: id}, nil
}

func (sb *stubBackend) DeleteProduct(ctx context.Context, s *session.Session, id string) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	out := sb.products[:0]
	for _, p := range sb.products {
		if p.ID != id {
			out = append(out, p)
		}
	}
	sb.products = out
	return nil
}

func (sb *stubBackend) DownloadProductTemplate(ctx context.Context, s *session.Session) ([]byte, string, error) {
	return sb.templateData, sb.templateType, sb.templateErr
}

func (sb *stubBackend) GetRestaurant(ctx context.Context, s *session.Session, id string) (*model.Restaurant, error) {
	if sb.restaurant == nil {
		return nil, &backend.LogicError{Message: "restaurant not found"}
	}
	return sb.restaurant, nil
}

func (sb *stubBackend) CreateRestaurant(ctx context.Context, s *session.Session, req backend.CreateRestaurantRequest) (*model.Restaurant, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.createRestaurantErr != nil {
		return nil, sb.createRestaurantErr
	}
	sb.createdRestaurants = append(sb.createdRestaurants, req)

	r := model.Restaurant{
		ID:                "rest-new",
		Name:              req.Name,
		PaymentMethods:    req.PaymentMethods,
		SubscriptionStart: req.SubscriptionStart,
		SubscriptionEnd:   req.SubscriptionEnd,
	}
	sb.restaurant = &r
	return &r, nil
}

func (sb *stubBackend) UpdateRestaurant(ctx context.Context, s *session.Session, id string, req backend.UpdateRestaurantRequest) (*model.Restaurant, error) {
	if sb.restaurant == nil {
		return nil, &backend.LogicError{Message: "restaurant not found"}
	}
	if req.Name != "" {
		sb.restaurant.Name = req.Name
	}
	if req.PaymentMethods != "" {
		sb.restaurant.PaymentMethods = req.PaymentMethods
	}
	return sb.restaurant, nil
}

func (sb *stubBackend) ListUsers(ctx context.Context, s *session.Session) ([]model.Account, error) {
	out := make([]model.Account, len(sb.users))
	copy(out, sb.users)
	return out, nil
}

func (sb *stubBackend) GetUser(ctx context.Context, s *session.Session, id string) (*model.Account, error) {
	for _, u := range sb.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, &backend.LogicError{Message: "user not found"}
}

func (sb *stubBackend) CreateUser(ctx context.Context, s *session.Session, req backend.CreateUserRequest) (*model.Account, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.createdUsers = append(sb.createdUsers, req)

	u := model.Account{
		ID:           "user-new",
		Name:         req.Name,
		Email:        req.Email,
		Username:     req.Username,
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         req.Role,
		IsActive:     true,
		RestaurantID: req.RestaurantID,
	}
	sb.users = append(sb.users, u)
	return &u, nil
}

func (sb *stubBackend) UpdateUser(ctx context.Context, s *session.Session, id string, req backend.UpdateUserRequest) (*model.Account, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.updateUserErr != nil {
		return nil, sb.updateUserErr
	}
	if sb.updatedUsers == nil {
		sb.updatedUsers = make(map[string]backend.UpdateUserRequest)
	}
	sb.updatedUsers[id] = req

	for i := range sb.users {
		if sb.users[i].ID == id {
			if req.RestaurantID != "" {
				sb.users[i].RestaurantID = req.RestaurantID
			}
			u := sb.users[i]
			return &u, nil
		}
	}
	return &model.Account{ID: id, RestaurantID: req.RestaurantID}, nil
}

func (sb *stubBackend) DeleteUser(ctx context.Context, s *session.Session, id string) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	out := sb.users[:0]
	for _, u := range sb.users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	sb.users = out
	return nil
}

// managerSession возвращает сессию управляющего с привязанным рестораном.
func managerSession() *session.Session {
	return &session.Session{
		Token: "token",
		Account: model.Account{
			ID:           "u1",
			Email:        "manager@example.com",
			Role:         model.RoleManager,
			RestaurantID: "r1",
		},
	}
}
