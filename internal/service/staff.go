package service

import (
	"context"
	"strings"

	"github.com/mmeshcher/restopanel-system/internal/backend"
	"github.com/mmeshcher/restopanel-system/internal/model"
	"github.com/mmeshcher/restopanel-system/internal/session"
	"github.com/mmeshcher/restopanel-system/internal/validation"
)

// Staff реализует управление учётными записями персонала.
type Staff struct {
	backend Backend
}

// NewStaff создаёт сервис персонала.
func NewStaff(b Backend) *Staff {
	return &Staff{backend: b}
}

// List возвращает сотрудников, доступных пользователю.
func (st *Staff) List(ctx context.Context, s *session.Session) ([]model.Account, error) {
	return st.backend.ListUsers(ctx, s)
}

// Get возвращает сотрудника по идентификатору.
func (st *Staff) Get(ctx context.Context, s *session.Session, id string) (*model.Account, error) {
	return st.backend.GetUser(ctx, s, id)
}

// Create создаёт учётную запись сотрудника.
// Новый сотрудник наследует ресторан текущего пользователя, если он есть.
func (st *Staff) Create(ctx context.Context, s *session.Session, form validation.UserForm) (*model.Account, error) {
	role, err := form.Validate()
	if err != nil {
		return nil, err
	}

	restaurantID := s.RestaurantID()
	if restaurantID == "" {
		restaurantID = strings.TrimSpace(form.RestaurantID)
	}

	return st.backend.CreateUser(ctx, s, backend.CreateUserRequest{
		Name:         strings.TrimSpace(form.Name),
		Email:        strings.TrimSpace(form.Email),
		Password:     form.Password,
		Username:     strings.TrimSpace(form.Username),
		Phone:        strings.TrimSpace(form.Phone),
		Address:      strings.TrimSpace(form.Address),
		Role:         role,
		RestaurantID: restaurantID,
	})
}

// Update обновляет учётную запись сотрудника.
func (st *Staff) Update(ctx context.Context, s *session.Session, id string, req backend.UpdateUserRequest) (*model.Account, error) {
	if req.Email != "" && !validation.ValidEmail(req.Email) {
		return nil, &validation.Error{Field: "email", Reason: "invalid email"}
	}
	return st.backend.UpdateUser(ctx, s, id, req)
}

// Delete удаляет учётную запись сотрудника.
func (st *Staff) Delete(ctx context.Context, s *session.Session, id string) error {
	return st.backend.DeleteUser(ctx, s, id)
}
