package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/mmeshcher/restopanel-system/internal/middleware"
)

// pathID извлекает идентификатор сущности из пути запроса.
func pathID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// SetupRouter настраивает HTTP-маршруты и middleware панели управления.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Post("/logout", h.Logout)

			r.Route("/pedidos", func(r chi.Router) {
				r.Get("/", h.GetOrders)
				r.Post("/", h.CreateOrder)
				r.Get("/en-curso", h.GetOrdersInProgress)
				r.Get("/resumen", h.GetOrdersSummary)
				r.Delete("/{id}", h.DeleteOrder)
				r.Post("/{id}/facturar", h.InvoiceOrder)
				r.Post("/{id}/listo", h.MarkOrderReady)
				r.Post("/{id}/estado", h.ChangeOrderStatus)
			})

			r.Get("/ventas/resumen", h.GetSalesReport)

			r.Get("/menu", h.GetMenu)

			r.Route("/tipo-productos", func(r chi.Router) {
				r.Post("/", h.CreateCategory)
				r.Put("/{id}", h.UpdateCategory)
				r.Delete("/{id}", h.DeleteCategory)
			})

			r.Route("/productos", func(r chi.Router) {
				r.Post("/", h.CreateProduct)
				r.Put("/{id}", h.UpdateProduct)
				r.Delete("/{id}", h.DeleteProduct)
				r.Post("/importar", h.ImportProducts)
				r.Get("/plantilla", h.DownloadTemplate)
			})

			r.Post("/onboarding", h.Onboarding)

			r.Get("/restaurante", h.GetRestaurant)
			r.Put("/restaurante", h.UpdateRestaurant)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.GetUsers)
				r.Post("/", h.CreateUser)
				r.Get("/{id}", h.GetUser)
				r.Put("/{id}", h.UpdateUser)
				r.Delete("/{id}", h.DeleteUser)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
