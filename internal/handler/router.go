package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	custommiddleware "github.com/mmeshcher/petcare/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса petcare.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Use(h.auth.Middleware)

		r.Route("/pet", func(r chi.Router) {
			r.Post("/", h.Onboard)
			r.Get("/", h.GetPet)
			r.Put("/name", h.Rename)

			r.Post("/feed", h.Feed)
			r.Post("/play", h.Play)
			r.Post("/clean", h.Clean)
			r.Post("/sleep", h.Sleep)
			r.Post("/heal", h.Heal)

			r.Post("/accessories", h.EquipAccessory)
			r.Delete("/accessories/{slot}", h.UnequipAccessory)
		})

		r.Get("/balance", h.GetBalance)
		r.Get("/transactions", h.GetTransactions)

		r.Get("/bonus", h.GetBonus)
		r.Post("/bonus/claim", h.ClaimBonus)

		r.Get("/minigames", h.GetMinigames)
		r.Post("/minigames/{id}/play", h.PlayMinigame)

		r.Get("/dailies", h.GetDailies)
		r.Post("/dailies/{id}/complete", h.CompleteDaily)

		r.Get("/achievements", h.GetAchievements)
		r.Get("/achievements/recent", h.GetRecentAchievements)

		r.Get("/notifications", h.GetNotifications)
		r.Get("/catalog", h.GetCatalog)

		r.Get("/backup", h.ExportBackup)
		r.Post("/backup", h.ImportBackup)
		r.Post("/sync", h.Sync)
		r.Post("/reset", h.Reset)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
