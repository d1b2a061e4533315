// Package session содержит явное состояние сессии пользователя панели.
//
// Токен и учётная запись передаются в каждый вызов сервисов явно, без
// глобального состояния. До выхода пользователя сессия доступна только
// на чтение; единственное исключение — привязка ресторана при онбординге,
// выполняемая через хранилище.
package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mmeshcher/restopanel-system/internal/model"
)

// Claims содержит полезную нагрузку JWT-токена бэкенда.
type Claims struct {
	Role      string `json:"tipe"`
	UserID    string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// ParseClaims декодирует полезную нагрузку токена без проверки подписи.
// Подпись проверяет бэкенд; клиенту нужны только срок действия и
// идентификатор пользователя.
func ParseClaims(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, errors.New("malformed token")
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("decode token payload: %w", err)
	}

	var c Claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, fmt.Errorf("parse token payload: %w", err)
	}

	return &c, nil
}

// Session связывает токен авторизации с учётной записью пользователя.
type Session struct {
	Token     string
	Account   model.Account
	ExpiresAt time.Time
}

// New создаёт сессию по токену и учётной записи. Срок действия берётся
// из токена; токен без разбираемого срока считается бессрочным.
func New(token string, account model.Account) *Session {
	s := &Session{Token: token, Account: account}
	if c, err := ParseClaims(token); err == nil && c.ExpiresAt > 0 {
		s.ExpiresAt = time.Unix(c.ExpiresAt, 0)
	}
	return s
}

// Expired сообщает, истёк ли срок действия токена сессии.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// RestaurantID возвращает идентификатор ресторана пользователя.
func (s *Session) RestaurantID() string {
	return s.Account.RestaurantID
}

// HasRestaurant сообщает, привязан ли к пользователю ресторан.
func (s *Session) HasRestaurant() bool {
	return s.Account.RestaurantID != ""
}

// IsManager сообщает, имеет ли пользователь роль управляющего.
func (s *Session) IsManager() bool {
	return s.Account.Role == model.RoleManager
}

// Store хранит активные сессии процесса по токену.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore создаёт пустое хранилище сессий.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Put регистрирует сессию в хранилище.
func (st *Store) Put(s *Session) {
	st.mu.Lock()
	st.sessions[s.Token] = s
	st.mu.Unlock()
}

// Get возвращает сессию по токену.
func (st *Store) Get(token string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[token]
	return s, ok
}

// Delete удаляет сессию по токену.
func (st *Store) Delete(token string) {
	st.mu.Lock()
	delete(st.sessions, token)
	st.mu.Unlock()
}

// SetRestaurant привязывает ресторан к учётной записи сессии.
// Единственная мутация сессии после входа; выполняется при онбординге.
func (st *Store) SetRestaurant(token, restaurantID string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[token]
	if !ok {
		return false
	}
	s.Account.RestaurantID = restaurantID
	return true
}

// StartCleanup запускает фоновую очистку просроченных сессий.
func (st *Store) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st.purgeExpired(time.Now())
			}
		}
	}()
}

func (st *Store) purgeExpired(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	n := 0
	for token, s := range st.sessions {
		if s.Expired(now) {
			delete(st.sessions, token)
			n++
		}
	}
	return n
}
