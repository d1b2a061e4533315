// Package handler содержит HTTP-обработчики панели управления рестораном.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/restopanel-system/internal/backend"
	"github.com/mmeshcher/restopanel-system/internal/middleware"
	"github.com/mmeshcher/restopanel-system/internal/model"
	"github.com/mmeshcher/restopanel-system/internal/service"
	"github.com/mmeshcher/restopanel-system/internal/session"
	"github.com/mmeshcher/restopanel-system/internal/validation"
)

// OrderService определяет контракт работы с заказами, используемый обработчиками.
type OrderService interface {
	Refresh(ctx context.Context, s *session.Session) error
	Snapshot() []model.Order
	InProgress() []model.Order
	Summary() model.Summary
	SalesReport(now time.Time) model.SalesReport
	CreateOrder(ctx context.Context, s *session.Session, req backend.CreateOrderRequest) (*model.Order, error)
	DeleteOrder(ctx context.Context, s *session.Session, id string) error
	Invoice(ctx context.Context, s *session.Session, id string) (*model.Order, error)
	AdvanceToReady(ctx context.Context, s *session.Session, id string) (*model.Order, error)
	SetStatus(ctx context.Context, s *session.Session, id string, status model.OrderStatus) (*model.Order, error)
}

// MenuService определяет контракт работы с меню.
type MenuService interface {
	Refresh(ctx context.Context, s *session.Session) error
	Categories() []model.Category
	Products() []model.Product
	CategoryNameFor(p model.Product) string
	CreateCategory(ctx context.Context, s *session.Session, name string) (*model.Category, error)
	UpdateCategory(ctx context.Context, s *session.Session, id, name string) (*model.Category, error)
	DeleteCategory(ctx context.Context, s *session.Session, id string) error
	CreateProduct(ctx context.Context, s *session.Session, form validation.ProductForm) (*model.Product, error)
	UpdateProduct(ctx context.Context, s *session.Session, id string, form validation.ProductForm) (*model.Product, error)
	DeleteProduct(ctx context.Context, s *session.Session, id string) error
	Import(ctx context.Context, s *session.Session, r io.Reader) (service.ImportReport, error)
	DownloadTemplate(ctx context.Context, s *session.Session) ([]byte, string, error)
}

// AuthService определяет контракт входа и выхода пользователей.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*session.Session, error)
	Logout(token string)
}

// StaffService определяет контракт управления персоналом.
type StaffService interface {
	List(ctx context.Context, s *session.Session) ([]model.Account, error)
	Get(ctx context.Context, s *session.Session, id string) (*model.Account, error)
	Create(ctx context.Context, s *session.Session, form validation.UserForm) (*model.Account, error)
	Update(ctx context.Context, s *session.Session, id string, req backend.UpdateUserRequest) (*model.Account, error)
	Delete(ctx context.Context, s *session.Session, id string) error
}

// RestaurantService определяет контракт работы с рестораном.
type RestaurantService interface {
	Get(ctx context.Context, s *session.Session) (*model.Restaurant, error)
	Update(ctx context.Context, s *session.Session, id string, req backend.UpdateRestaurantRequest) (*model.Restaurant, error)
	Setup(ctx context.Context, s *session.Session, name, paymentMethods string) (*model.Restaurant, error)
}

// Handler реализует HTTP-обработчики панели управления рестораном.
type Handler struct {
	orders         OrderService
	menu           MenuService
	auth           AuthService
	staff          StaffService
	restaurants    RestaurantService
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(orders OrderService, menu MenuService, auth AuthService, staff StaffService, restaurants RestaurantService, logger *zap.Logger, authMW *middleware.AuthMiddleware) *Handler {
	return &Handler{
		orders:         orders,
		menu:           menu,
		auth:           auth,
		staff:          staff,
		restaurants:    restaurants,
		logger:         logger,
		authMiddleware: authMW,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
	}
}

// writeError переводит ошибку бизнес-логики в HTTP-ответ.
// Ошибки удалённого бэкенда отдаются как 502: панель лишь посредник
// и не выдаёт чужие отказы за свои.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var vErr *validation.Error
	if errors.As(err, &vErr) {
		http.Error(w, vErr.Error(), http.StatusBadRequest)
		return
	}

	switch {
	case errors.Is(err, service.ErrOrderBusy),
		errors.Is(err, service.ErrOrderClosed),
		errors.Is(err, service.ErrNotForward),
		errors.Is(err, service.ErrCategoryExists):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrNoRestaurant):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, backend.ErrNoToken):
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	case errors.Is(err, backend.ErrUnavailable):
		http.Error(w, "store service unavailable", http.StatusBadGateway)
		return
	}

	var logicErr *backend.LogicError
	if errors.As(err, &logicErr) {
		http.Error(w, logicErr.Message, http.StatusBadGateway)
		return
	}

	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Code == http.StatusUnauthorized {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		http.Error(w, statusErr.Error(), http.StatusBadGateway)
		return
	}

	h.logger.Error("internal error", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) sessionFrom(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return nil, false
	}
	return s, true
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token         string        `json:"token"`
	User          model.Account `json:"user"`
	HasRestaurant bool          `json:"has_restaurant"`
}

// Login выполняет вход пользователя и возвращает токен с учётной записью.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	s, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var logicErr *backend.LogicError
		if errors.As(err, &logicErr) {
			// Бэкенд отверг учётные данные.
			http.Error(w, logicErr.Message, http.StatusUnauthorized)
			return
		}
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, loginResponse{
		Token:         s.Token,
		User:          s.Account,
		HasRestaurant: s.HasRestaurant(),
	})
}

// Logout завершает сессию текущего пользователя.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	h.auth.Logout(s.Token)
	w.WriteHeader(http.StatusOK)
}

type ordersResponse struct {
	Orders  []model.Order `json:"pedidos"`
	Summary model.Summary `json:"resumen"`
}

// GetOrders возвращает свежий снимок заказов вместе со сводкой.
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	if err := h.orders.Refresh(r.Context(), s); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, ordersResponse{
		Orders:  h.orders.Snapshot(),
		Summary: h.orders.Summary(),
	})
}

// GetOrdersInProgress возвращает заказы в работе.
func (h *Handler) GetOrdersInProgress(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	if err := h.orders.Refresh(r.Context(), s); err != nil {
		h.writeError(w, err)
		return
	}

	orders := h.orders.InProgress()
	if orders == nil {
		orders = []model.Order{}
	}
	h.writeJSON(w, http.StatusOK, orders)
}

// GetOrdersSummary возвращает сводку по заказам в работе.
func (h *Handler) GetOrdersSummary(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	if err := h.orders.Refresh(r.Context(), s); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, h.orders.Summary())
}

// GetSalesReport возвращает отчёт по продажам.
func (h *Handler) GetSalesReport(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	if err := h.orders.Refresh(r.Context(), s); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, h.orders.SalesReport(time.Now()))
}

// CreateOrder создаёт новый заказ.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	var req backend.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	created, err := h.orders.CreateOrder(r.Context(), s, req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, created)
}

// DeleteOrder удаляет заказ.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	if err := h.orders.DeleteOrder(r.Context(), s, pathID(r)); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

type confirmRequest struct {
	Confirm bool `json:"confirm"`
}

func (h *Handler) confirmed(w http.ResponseWriter, r *http.Request) bool {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Confirm {
		http.Error(w, "confirmation required", http.StatusPreconditionRequired)
		return false
	}
	return true
}

// InvoiceOrder выставляет счёт по заказу. Операция необратима и требует
// явного подтверждения в теле запроса.
func (h *Handler) InvoiceOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}
	if !h.confirmed(w, r) {
		return
	}

	upd, err := h.orders.Invoice(r.Context(), s, pathID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, upd)
}

// MarkOrderReady переводит заказ в статус «Listo».
func (h *Handler) MarkOrderReady(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	upd, err := h.orders.AdvanceToReady(r.Context(), s, pathID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, upd)
}

type statusRequest struct {
	Status model.OrderStatus `json:"estado"`
}

// ChangeOrderStatus выполняет охраняемую смену статуса заказа.
func (h *Handler) ChangeOrderStatus(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	upd, err := h.orders.SetStatus(r.Context(), s, pathID(r), req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, upd)
}

type productView struct {
	model.Product
	CategoryName string `json:"categoria"`
}

type menuResponse struct {
	Categories []model.Category `json:"tipo_productos"`
	Products   []productView    `json:"productos"`
}

// GetMenu возвращает свежий снимок меню: категории и продукты с именами категорий.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	if err := h.menu.Refresh(r.Context(), s); err != nil {
		h.writeError(w, err)
		return
	}

	products := h.menu.Products()
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, productView{Product: p, CategoryName: h.menu.CategoryNameFor(p)})
	}

	h.writeJSON(w, http.StatusOK, menuResponse{
		Categories: h.menu.Categories(),
		Products:   views,
	})
}

type categoryRequest struct {
	Name string `json:"name"`
}

// CreateCategory создаёт категорию меню.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	created, err := h.menu.CreateCategory(r.Context(), s, req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, created)
}

// UpdateCategory переименовывает категорию меню.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	updated, err := h.menu.UpdateCategory(r.Context(), s, pathID(r), req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, updated)
}

// DeleteCategory удаляет категорию меню. Продукты категории остаются.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	if err := h.menu.DeleteCategory(r.Context(), s, pathID(r)); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

type productRequest struct {
	Name        string `json:"name"`
	Price       string `json:"precio"`
	CategoryID  string `json:"id_tipo"`
	Description string `json:"descripcion"`
}

func (req productRequest) form() validation.ProductForm {
	return validation.ProductForm{
		Name:        req.Name,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Description: req.Description,
	}
}

// CreateProduct создаёт продукт меню. Цена приходит текстом и проверяется
// до обращения к бэкенду.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	created, err := h.menu.CreateProduct(r.Context(), s, req.form())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, created)
}

// UpdateProduct обновляет продукт меню.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	updated, err := h.menu.UpdateProduct(r.Context(), s, pathID(r), req.form())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, updated)
}

// DeleteProduct удаляет продукт. Операция требует явного подтверждения.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}
	if !h.confirmed(w, r) {
		return
	}

	if err := h.menu.DeleteProduct(r.Context(), s, pathID(r)); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// ImportProducts выполняет массовую загрузку продуктов из CSV-файла в теле запроса.
func (h *Handler) ImportProducts(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	defer r.Body.Close()

	report, err := h.menu.Import(r.Context(), s, r.Body)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

// DownloadTemplate отдаёт шаблон массовой загрузки продуктов.
func (h *Handler) DownloadTemplate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	data, contentType, err := h.menu.DownloadTemplate(r.Context(), s)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="productos.xlsx"`)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("write template error", zap.Error(err))
	}
}

type onboardingRequest struct {
	Name           string `json:"name"`
	PaymentMethods string `json:"metodos_pago"`
}

// Onboarding выполняет первичную настройку ресторана для нового управляющего.
func (h *Handler) Onboarding(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	var req onboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	rest, err := h.restaurants.Setup(r.Context(), s, req.Name, req.PaymentMethods)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, rest)
}

// GetRestaurant возвращает ресторан текущего пользователя.
func (h *Handler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	rest, err := h.restaurants.Get(r.Context(), s)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, rest)
}

// UpdateRestaurant обновляет ресторан текущего пользователя.
func (h *Handler) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}
	if !s.HasRestaurant() {
		h.writeError(w, service.ErrNoRestaurant)
		return
	}

	var req backend.UpdateRestaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	rest, err := h.restaurants.Update(r.Context(), s, s.RestaurantID(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, rest)
}

// GetUsers возвращает список сотрудников.
func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	users, err := h.staff.List(r.Context(), s)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if users == nil {
		users = []model.Account{}
	}

	h.writeJSON(w, http.StatusOK, users)
}

// GetUser возвращает сотрудника по идентификатору.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	u, err := h.staff.Get(r.Context(), s, pathID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, u)
}

type userRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Username        string `json:"user_name"`
	Phone           string `json:"phone_number"`
	Address         string `json:"address"`
	Role            string `json:"tipe"`
	RestaurantID    string `json:"id_restaurante"`
}

// CreateUser создаёт учётную запись сотрудника.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	created, err := h.staff.Create(r.Context(), s, validation.UserForm{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Username:        req.Username,
		Phone:           req.Phone,
		Address:         req.Address,
		Role:            req.Role,
		RestaurantID:    req.RestaurantID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, created)
}

// UpdateUser обновляет учётную запись сотрудника.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	var req backend.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	updated, err := h.staff.Update(r.Context(), s, pathID(r), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, updated)
}

// DeleteUser удаляет учётную запись сотрудника.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFrom(w, r)
	if !ok {
		return
	}

	if err := h.staff.Delete(r.Context(), s, pathID(r)); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
