package service

import (
	"context"
	"strings"

	"github.com/mmeshcher/restopanel-system/internal/session"
	"github.com/mmeshcher/restopanel-system/internal/validation"
)

// Auth реализует вход и выход пользователей панели.
type Auth struct {
	backend Backend
	store   *session.Store
}

// NewAuth создаёт сервис аутентификации.
func NewAuth(b Backend, store *session.Store) *Auth {
	return &Auth{backend: b, store: store}
}

// Login выполняет вход через бэкенд и регистрирует сессию в хранилище.
func (a *Auth) Login(ctx context.Context, email, password string) (*session.Session, error) {
	email = strings.TrimSpace(email)
	if !validation.ValidEmail(email) {
		return nil, &validation.Error{Field: "email", Reason: "invalid email"}
	}
	if password == "" {
		return nil, &validation.Error{Field: "password", Reason: "password is required"}
	}

	res, err := a.backend.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s := session.New(res.Token, res.User)
	a.store.Put(s)
	return s, nil
}

// Logout завершает сессию с указанным токеном.
func (a *Auth) Logout(token string) {
	a.store.Delete(token)
}
