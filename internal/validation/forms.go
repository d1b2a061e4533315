// Package validation содержит клиентскую проверку форм панели.
//
// Числовые поля форм приходят текстом; здесь находится граница, на которой
// текст превращается в типизированное значение до любого сетевого вызова.
package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mmeshcher/restopanel-system/internal/model"
)

// Error описывает ошибку проверки поля формы.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return e.Field + ": " + e.Reason
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ParsePrice разбирает цену из текстового поля формы.
// Цена должна быть строго положительным числом.
func ParsePrice(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &Error{Field: "precio", Reason: "price is required"}
	}

	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &Error{Field: "precio", Reason: "price must be a number"}
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, &Error{Field: "precio", Reason: "price must be positive"}
	}

	return price, nil
}

// ValidEmail сообщает, похожа ли строка на адрес электронной почты.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// ValidatePassword проверяет длину пароля и совпадение с подтверждением.
func ValidatePassword(password, confirm string) error {
	if len(password) < 6 {
		return &Error{Field: "password", Reason: "password must be at least 6 characters"}
	}
	if password != confirm {
		return &Error{Field: "password", Reason: "passwords do not match"}
	}
	return nil
}

// ProductForm содержит поля формы продукта в текстовом виде.
type ProductForm struct {
	Name        string
	Price       string
	CategoryID  string
	Description string
}

// Validate проверяет форму продукта и возвращает нормализованное имя
// и разобранную цену.
func (f ProductForm) Validate() (string, float64, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return "", 0, &Error{Field: "name", Reason: "product name is required"}
	}
	if strings.TrimSpace(f.CategoryID) == "" {
		return "", 0, &Error{Field: "id_tipo", Reason: "category is required"}
	}

	price, err := ParsePrice(f.Price)
	if err != nil {
		return "", 0, err
	}

	return name, price, nil
}

// UserForm содержит поля формы создания сотрудника.
type UserForm struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
	Username        string
	Phone           string
	Address         string
	Role            string
	RestaurantID    string
}

// Validate проверяет форму сотрудника и возвращает нормализованную роль.
func (f UserForm) Validate() (model.Role, error) {
	if strings.TrimSpace(f.Name) == "" {
		return "", &Error{Field: "name", Reason: "name is required"}
	}
	if !ValidEmail(f.Email) {
		return "", &Error{Field: "email", Reason: "invalid email"}
	}
	if err := ValidatePassword(f.Password, f.PasswordConfirm); err != nil {
		return "", err
	}

	switch model.Role(f.Role) {
	case model.RoleEmployee, model.RoleManager:
		return model.Role(f.Role), nil
	case "":
		return model.RoleEmployee, nil
	default:
		return "", &Error{Field: "tipe", Reason: "unknown role"}
	}
}
