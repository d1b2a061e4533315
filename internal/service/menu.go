package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mmeshcher/restopanel-system/internal/backend"
	"github.com/mmeshcher/restopanel-system/internal/model"
	"github.com/mmeshcher/restopanel-system/internal/session"
	"github.com/mmeshcher/restopanel-system/internal/validation"
)

// UncategorizedLabel — метка для продуктов, чья категория была удалена.
// Такие продукты не вычищаются, а лишь помечаются при отображении.
const UncategorizedLabel = "Sin categoría"

// Menu реализует работу с меню ресторана: категориями и продуктами.
type Menu struct {
	backend Backend

	mu         sync.Mutex
	categories []model.Category
	products   []model.Product
}

// NewMenu создаёт сервис меню поверх указанного бэкенда.
func NewMenu(b Backend) *Menu {
	return &Menu{backend: b}
}

// Refresh перечитывает категории и продукты ресторана из бэкенда.
// Бэкенд отдаёт все записи; снимок сужается до ресторана пользователя.
func (m *Menu) Refresh(ctx context.Context, s *session.Session) error {
	categories, err := m.backend.ListCategories(ctx, s)
	if err != nil {
		return err
	}
	products, err := m.backend.ListProducts(ctx, s)
	if err != nil {
		return err
	}

	rid := s.RestaurantID()

	m.mu.Lock()
	m.categories = m.categories[:0]
	for _, c := range categories {
		if c.RestaurantID == rid {
			m.categories = append(m.categories, c)
		}
	}
	m.products = m.products[:0]
	for _, p := range products {
		if p.RestaurantID == rid {
			m.products = append(m.products, p)
		}
	}
	m.mu.Unlock()
	return nil
}

// Categories возвращает копию снимка категорий.
func (m *Menu) Categories() []model.Category {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Category, len(m.categories))
	copy(out, m.categories)
	return out
}

// Products возвращает копию снимка продуктов.
func (m *Menu) Products() []model.Product {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Product, len(m.products))
	copy(out, m.products)
	return out
}

// CategoryNameFor возвращает имя категории продукта для отображения.
func (m *Menu) CategoryNameFor(p model.Product) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.categories {
		if c.ID == p.CategoryID {
			return c.Name
		}
	}
	return UncategorizedLabel
}

// CreateCategory создаёт категорию меню и перечитывает снимок.
// Имя должно быть непустым и не занятым в ресторане.
func (m *Menu) CreateCategory(ctx context.Context, s *session.Session, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &validation.Error{Field: "name", Reason: "category name is required"}
	}
	if !s.HasRestaurant() {
		return nil, ErrNoRestaurant
	}
	if _, found := matchCategory(m.Categories(), name); found {
		return nil, ErrCategoryExists
	}

	created, err := m.backend.CreateCategory(ctx, s, backend.CreateCategoryRequest{
		Name:         name,
		RestaurantID: s.RestaurantID(),
	})
	if err != nil {
		return nil, err
	}

	if err := m.Refresh(ctx, s); err != nil {
		return created, fmt.Errorf("refresh after create: %w", err)
	}
	return created, nil
}

// UpdateCategory переименовывает категорию и перечитывает снимок.
func (m *Menu) UpdateCategory(ctx context.Context, s *session.Session, id, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &validation.Error{Field: "name", Reason: "category name is required"}
	}
	if other, found := matchCategory(m.Categories(), name); found && other.ID != id {
		return nil, ErrCategoryExists
	}

	updated, err := m.backend.UpdateCategory(ctx, s, id, backend.UpdateCategoryRequest{Name: name})
	if err != nil {
		return nil, err
	}

	if err := m.Refresh(ctx, s); err != nil {
		return updated, fmt.Errorf("refresh after update: %w", err)
	}
	return updated, nil
}

// DeleteCategory удаляет категорию и перечитывает снимок.
// Продукты категории не удаляются: они остаются и помечаются как
// «Sin categoría» при отображении.
func (m *Menu) DeleteCategory(ctx context.Context, s *session.Session, id string) error {
	if err := m.backend.DeleteCategory(ctx, s, id); err != nil {
		return err
	}

	if err := m.Refresh(ctx, s); err != nil {
		return fmt.Errorf("refresh after delete: %w", err)
	}
	return nil
}

// CreateProduct создаёт продукт из данных формы и перечитывает снимок.
func (m *Menu) CreateProduct(ctx context.Context, s *session.Session, form validation.ProductForm) (*model.Product, error) {
	name, price, err := form.Validate()
	if err != nil {
		return nil, err
	}
	if !s.HasRestaurant() {
		return nil, ErrNoRestaurant
	}
	if !m.categoryKnown(form.CategoryID) {
		return nil, ErrCategoryNotFound
	}

	created, err := m.backend.CreateProduct(ctx, s, backend.CreateProductRequest{
		Name:         name,
		CategoryID:   form.CategoryID,
		RestaurantID: s.RestaurantID(),
		Price:        price,
		Description:  strings.TrimSpace(form.Description),
	})
	if err != nil {
		return nil, err
	}

	if err := m.Refresh(ctx, s); err != nil {
		return created, fmt.Errorf("refresh after create: %w", err)
	}
	return created, nil
}

// UpdateProduct обновляет продукт из данных формы и перечитывает снимок.
func (m *Menu) UpdateProduct(ctx context.Context, s *session.Session, id string, form validation.ProductForm) (*model.Product, error) {
	name, price, err := form.Validate()
	if err != nil {
		return nil, err
	}
	if !m.categoryKnown(form.CategoryID) {
		return nil, ErrCategoryNotFound
	}

	updated, err := m.backend.UpdateProduct(ctx, s, id, backend.UpdateProductRequest{
		Name:        name,
		CategoryID:  form.CategoryID,
		Price:       &price,
		Description: strings.TrimSpace(form.Description),
	})
	if err != nil {
		return nil, err
	}

	if err := m.Refresh(ctx, s); err != nil {
		return updated, fmt.Errorf("refresh after update: %w", err)
	}
	return updated, nil
}

// DeleteProduct удаляет продукт и перечитывает снимок.
func (m *Menu) DeleteProduct(ctx context.Context, s *session.Session, id string) error {
	if err := m.backend.DeleteProduct(ctx, s, id); err != nil {
		return err
	}

	if err := m.Refresh(ctx, s); err != nil {
		return fmt.Errorf("refresh after delete: %w", err)
	}
	return nil
}

func (m *Menu) categoryKnown(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// ImportReport описывает результат массовой загрузки продуктов.
type ImportReport struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Import выполняет массовую загрузку продуктов из CSV.
//
// Формат: строка заголовка, затем строки «название, цена, название категории».
// Загрузка нетранзакционна: каждая строка проверяется и создаётся независимо.
// Строка пропускается, если какое-то поле пусто, цена не разбирается в
// строго положительное число или категория не находится по имени (сравнение
// без учёта регистра и крайних пробелов). Ошибка создания отдельной строки
// не прерывает загрузку. После обработки снимок продуктов перечитывается.
func (m *Menu) Import(ctx context.Context, s *session.Session, r io.Reader) (ImportReport, error) {
	var rep ImportReport

	if !s.HasRestaurant() {
		return rep, ErrNoRestaurant
	}
	categories := m.Categories()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rep, fmt.Errorf("read import row: %w", err)
		}
		if header {
			header = false
			continue
		}

		if len(record) < 3 {
			rep.Skipped++
			continue
		}

		name := strings.TrimSpace(record[0])
		rawPrice := strings.TrimSpace(record[1])
		categoryName := strings.TrimSpace(record[2])
		if name == "" || rawPrice == "" || categoryName == "" {
			rep.Skipped++
			continue
		}

		price, err := validation.ParsePrice(rawPrice)
		if err != nil {
			rep.Skipped++
			continue
		}

		category, found := matchCategory(categories, categoryName)
		if !found {
			rep.Skipped++
			continue
		}

		_, err = m.backend.CreateProduct(ctx, s, backend.CreateProductRequest{
			Name:         name,
			CategoryID:   category.ID,
			RestaurantID: s.RestaurantID(),
			Price:        price,
		})
		if err != nil {
			rep.Failed++
			continue
		}
		rep.Created++
	}

	if err := m.Refresh(ctx, s); err != nil {
		return rep, fmt.Errorf("refresh after import: %w", err)
	}
	return rep, nil
}

// DownloadTemplate скачивает шаблон массовой загрузки продуктов из бэкенда.
func (m *Menu) DownloadTemplate(ctx context.Context, s *session.Session) ([]byte, string, error) {
	return m.backend.DownloadProductTemplate(ctx, s)
}

// matchCategory ищет категорию по имени без учёта регистра и крайних пробелов.
func matchCategory(categories []model.Category, name string) (model.Category, bool) {
	name = strings.TrimSpace(name)
	for _, c := range categories {
		if strings.EqualFold(strings.TrimSpace(c.Name), name) {
			return c, true
		}
	}
	return model.Category{}, false
}
