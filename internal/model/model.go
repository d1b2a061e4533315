// Package model содержит доменные сущности панели управления рестораном.
package model

import "time"

// OrderStatus описывает статус заказа в жизненном цикле.
type OrderStatus string

// Статусы заказа в том виде, в котором их хранит бэкенд.
const (
	OrderStatusPending       OrderStatus = "Pendiente"
	OrderStatusInPreparation OrderStatus = "En Preparación"
	OrderStatusReady         OrderStatus = "Listo"
	OrderStatusDelivered     OrderStatus = "Entregado"
	OrderStatusInvoiced      OrderStatus = "Facturado"
	OrderStatusCancelled     OrderStatus = "Cancelado"
)

// Terminal сообщает, является ли статус конечным: из него нет переходов.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusInvoiced || s == OrderStatusCancelled
}

// InProgress сообщает, относится ли заказ с этим статусом к заказам в работе.
func (s OrderStatus) InProgress() bool {
	return !s.Terminal()
}

// OrderType описывает тип заказа.
type OrderType string

// Типы заказов, поддерживаемые бэкендом.
const (
	OrderTypeTable    OrderType = "Mesa"
	OrderTypeDelivery OrderType = "Domicilio"
	OrderTypeTakeaway OrderType = "Para Llevar"
)

// Order описывает заказ клиента ресторана.
type Order struct {
	ID           string      `json:"id"`
	RestaurantID string      `json:"id_restaurante"`
	TableID      string      `json:"id_mesa,omitempty"`
	Type         OrderType   `json:"tipo_pedido"`
	Status       OrderStatus `json:"estado"`
	Total        float64     `json:"total"`
	Number       string      `json:"numero"`
	Address      string      `json:"direccion,omitempty"`
	DeliveryFee  string      `json:"valor_domicilio,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Category описывает категорию меню (тип продукта).
type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	RestaurantID string `json:"id_restaurante"`
}

// Product описывает продукт меню.
type Product struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	CategoryID   string  `json:"id_tipo"`
	RestaurantID string  `json:"id_restaurante"`
	Price        float64 `json:"precio"`
	Description  string  `json:"descripcion,omitempty"`
}

// Restaurant описывает ресторан и окно его подписки.
type Restaurant struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	PaymentMethods    string    `json:"metodos_pago"`
	SubscriptionStart time.Time `json:"fecha_inicio_suscripcion"`
	SubscriptionEnd   time.Time `json:"fecha_fin_suscripcion"`
}

// Role описывает роль сотрудника.
type Role string

// Роли сотрудников.
const (
	RoleEmployee Role = "Empleado"
	RoleManager  Role = "Gerente"
)

// Account описывает учётную запись сотрудника ресторана.
type Account struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Username     string `json:"user_name"`
	Phone        string `json:"phone_number"`
	Address      string `json:"address"`
	Role         Role   `json:"tipe"`
	IsActive     bool   `json:"is_active"`
	RestaurantID string `json:"id_restaurante,omitempty"`
	LastLogin    string `json:"last_login,omitempty"`
}

// Summary содержит сводку по заказам в работе.
type Summary struct {
	InProgressCount    int     `json:"in_progress_count"`
	InProgressTotal    float64 `json:"in_progress_total"`
	PendingCount       int     `json:"pending_count"`
	InPreparationCount int     `json:"in_preparation_count"`
}

// SalesReport содержит отчёт по продажам: учитываются только заказы
// со статусом «Facturado».
type SalesReport struct {
	TotalSales    float64 `json:"total_sales"`
	InvoicedCount int     `json:"invoiced_count"`
	TodayCount    int     `json:"today_count"`
	AverageSale   float64 `json:"average_sale"`
}
