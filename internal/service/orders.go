package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mmeshcher/restopanel-system/internal/backend"
	"github.com/mmeshcher/restopanel-system/internal/model"
	"github.com/mmeshcher/restopanel-system/internal/session"
	"github.com/mmeshcher/restopanel-system/internal/validation"
)

// Orders реализует контроллер жизненного цикла заказов.
//
// Снимок заказов заменяется целиком перезагрузкой из бэкенда после каждой
// успешной мутации; при ошибке мутации снимок не меняется. По одному заказу
// одновременно допускается не более одной операции; операции над разными
// заказами не упорядочиваются, побеждает последняя перезагрузка.
type Orders struct {
	backend Backend

	mu       sync.Mutex
	snapshot []model.Order
	inflight map[string]struct{}
}

// NewOrders создаёт контроллер заказов поверх указанного бэкенда.
func NewOrders(b Backend) *Orders {
	return &Orders{
		backend:  b,
		inflight: make(map[string]struct{}),
	}
}

// statusRank задаёт порядок статусов вдоль жизненного цикла заказа.
// «Cancelado» в ряду отсутствует: клиент в него не переводит.
var statusRank = map[model.OrderStatus]int{
	model.OrderStatusPending:       0,
	model.OrderStatusInPreparation: 1,
	model.OrderStatusReady:         2,
	model.OrderStatusDelivered:     3,
	model.OrderStatusInvoiced:      4,
}

// Refresh перечитывает снимок заказов из бэкенда.
func (o *Orders) Refresh(ctx context.Context, s *session.Session) error {
	orders, err := o.backend.ListOrders(ctx, s)
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.snapshot = orders
	o.mu.Unlock()
	return nil
}

// Snapshot возвращает копию текущего снимка заказов.
func (o *Orders) Snapshot() []model.Order {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]model.Order, len(o.snapshot))
	copy(out, o.snapshot)
	return out
}

// InProgress возвращает заказы в работе: не выставленные в счёт и не отменённые.
func (o *Orders) InProgress() []model.Order {
	var out []model.Order
	for _, ord := range o.Snapshot() {
		if ord.Status.InProgress() {
			out = append(out, ord)
		}
	}
	return out
}

// ComputeSummary вычисляет сводку по снимку заказов.
// Сводка каждый раз пересчитывается целиком: снимки небольшие, а полный
// пересчёт исключает ошибки инкрементального обновления.
func ComputeSummary(orders []model.Order) model.Summary {
	var sum model.Summary
	for _, ord := range orders {
		if ord.Status.Terminal() {
			continue
		}
		sum.InProgressCount++
		sum.InProgressTotal += ord.Total

		switch ord.Status {
		case model.OrderStatusPending:
			sum.PendingCount++
		case model.OrderStatusInPreparation:
			sum.InPreparationCount++
		}
	}
	return sum
}

// Summary возвращает сводку по текущему снимку.
func (o *Orders) Summary() model.Summary {
	return ComputeSummary(o.Snapshot())
}

// SalesReport строит отчёт по продажам из заказов снимка со статусом «Facturado».
func (o *Orders) SalesReport(now time.Time) model.SalesReport {
	var rep model.SalesReport
	for _, ord := range o.Snapshot() {
		if ord.Status != model.OrderStatusInvoiced {
			continue
		}
		rep.InvoicedCount++
		rep.TotalSales += ord.Total
		if sameDay(ord.CreatedAt, now) {
			rep.TodayCount++
		}
	}
	if rep.InvoicedCount > 0 {
		rep.AverageSale = rep.TotalSales / float64(rep.InvoicedCount)
	}
	return rep
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// begin помечает заказ как обрабатываемый.
func (o *Orders) begin(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, busy := o.inflight[id]; busy {
		return ErrOrderBusy
	}
	o.inflight[id] = struct{}{}
	return nil
}

func (o *Orders) end(id string) {
	o.mu.Lock()
	delete(o.inflight, id)
	o.mu.Unlock()
}

// localStatus возвращает статус заказа из текущего снимка.
func (o *Orders) localStatus(id string) (model.OrderStatus, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, ord := range o.snapshot {
		if ord.ID == id {
			return ord.Status, true
		}
	}
	return "", false
}

// Invoice выставляет счёт по заказу: переводит его в статус «Facturado»
// и перечитывает снимок. Повторное выставление счёта отклоняет бэкенд;
// клиент этот случай не различает и возвращает ошибку хранилища как есть.
func (o *Orders) Invoice(ctx context.Context, s *session.Session, id string) (*model.Order, error) {
	if err := o.begin(id); err != nil {
		return nil, err
	}
	defer o.end(id)

	upd, err := o.backend.UpdateOrder(ctx, s, id, backend.UpdateOrderRequest{Status: model.OrderStatusInvoiced})
	if err != nil {
		return nil, err
	}

	if err := o.Refresh(ctx, s); err != nil {
		return upd, fmt.Errorf("refresh after invoice: %w", err)
	}
	return upd, nil
}

// AdvanceToReady переводит заказ в статус «Listo».
func (o *Orders) AdvanceToReady(ctx context.Context, s *session.Session, id string) (*model.Order, error) {
	return o.SetStatus(ctx, s, id, model.OrderStatusReady)
}

// SetStatus выполняет охраняемую смену статуса заказа.
// Переходы допускаются только вперёд по жизненному циклу; заказ в конечном
// статусе не меняется. Перевод в «Cancelado» клиентом не поддерживается.
func (o *Orders) SetStatus(ctx context.Context, s *session.Session, id string, status model.OrderStatus) (*model.Order, error) {
	target, ok := statusRank[status]
	if !ok {
		return nil, ErrNotForward
	}

	if err := o.begin(id); err != nil {
		return nil, err
	}
	defer o.end(id)

	if cur, found := o.localStatus(id); found {
		if cur.Terminal() {
			return nil, ErrOrderClosed
		}
		if rank, known := statusRank[cur]; known && target <= rank {
			return nil, ErrNotForward
		}
	}

	upd, err := o.backend.UpdateOrder(ctx, s, id, backend.UpdateOrderRequest{Status: status})
	if err != nil {
		return nil, err
	}

	if err := o.Refresh(ctx, s); err != nil {
		return upd, fmt.Errorf("refresh after status change: %w", err)
	}
	return upd, nil
}

// CreateOrder создаёт заказ и перечитывает снимок.
func (o *Orders) CreateOrder(ctx context.Context, s *session.Session, req backend.CreateOrderRequest) (*model.Order, error) {
	if req.RestaurantID == "" {
		req.RestaurantID = s.RestaurantID()
	}
	if req.RestaurantID == "" {
		return nil, ErrNoRestaurant
	}
	if req.Total < 0 {
		return nil, &validation.Error{Field: "total", Reason: "total must not be negative"}
	}
	if req.Status == "" {
		req.Status = model.OrderStatusPending
	}

	switch req.Type {
	case model.OrderTypeTable:
		if strings.TrimSpace(req.TableID) == "" {
			return nil, &validation.Error{Field: "id_mesa", Reason: "table is required for table orders"}
		}
	case model.OrderTypeDelivery:
		if strings.TrimSpace(req.Address) == "" {
			return nil, &validation.Error{Field: "direccion", Reason: "address is required for delivery orders"}
		}
	case model.OrderTypeTakeaway:
	default:
		return nil, &validation.Error{Field: "tipo_pedido", Reason: "unknown order type"}
	}

	created, err := o.backend.CreateOrder(ctx, s, req)
	if err != nil {
		return nil, err
	}

	if err := o.Refresh(ctx, s); err != nil {
		return created, fmt.Errorf("refresh after create: %w", err)
	}
	return created, nil
}

// DeleteOrder удаляет заказ и перечитывает снимок.
func (o *Orders) DeleteOrder(ctx context.Context, s *session.Session, id string) error {
	if err := o.begin(id); err != nil {
		return err
	}
	defer o.end(id)

	if err := o.backend.DeleteOrder(ctx, s, id); err != nil {
		return err
	}

	if err := o.Refresh(ctx, s); err != nil {
		return fmt.Errorf("refresh after delete: %w", err)
	}
	return nil
}
