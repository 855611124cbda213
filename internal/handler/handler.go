// Package handler содержит HTTP-обработчики API сервиса petcare.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/petcare/internal/achievement"
	"github.com/mmeshcher/petcare/internal/backup"
	"github.com/mmeshcher/petcare/internal/bonus"
	"github.com/mmeshcher/petcare/internal/catalog"
	"github.com/mmeshcher/petcare/internal/cloudsync"
	"github.com/mmeshcher/petcare/internal/daily"
	"github.com/mmeshcher/petcare/internal/ledger"
	"github.com/mmeshcher/petcare/internal/middleware"
	"github.com/mmeshcher/petcare/internal/minigame"
	"github.com/mmeshcher/petcare/internal/model"
	"github.com/mmeshcher/petcare/internal/pet"
	"github.com/mmeshcher/petcare/internal/service"
	"github.com/mmeshcher/petcare/internal/validation"
)

// maxBackupSize ограничивает размер загружаемой резервной копии.
const maxBackupSize = 1 << 20

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	Onboard(ctx context.Context, name, species string) (model.Pet, error)
	Pet(ctx context.Context) (model.Pet, error)
	Rename(ctx context.Context, name string) (model.Pet, error)
	Feed(ctx context.Context, itemID string) (pet.ActionResult, error)
	Play(ctx context.Context, itemID string) (pet.ActionResult, error)
	Clean(ctx context.Context) (pet.ActionResult, error)
	Sleep(ctx context.Context) (pet.ActionResult, error)
	Heal(ctx context.Context, itemID string) (pet.ActionResult, error)
	EquipAccessory(ctx context.Context, accessoryID string) (model.Pet, error)
	UnequipAccessory(ctx context.Context, slot model.Slot) (model.Pet, error)

	Balance(ctx context.Context) (service.BalanceView, error)
	Transactions(ctx context.Context) ([]model.Transaction, error)
	BonusStatus(ctx context.Context) (service.BonusView, error)
	ClaimBonus(ctx context.Context) (bonus.Result, error)
	Minigames(ctx context.Context) []minigame.Availability
	PlayMinigame(ctx context.Context, gameID string, score int) (service.MinigameResult, error)
	Dailies(ctx context.Context) ([]service.DailyView, error)
	CompleteDaily(ctx context.Context, id string) (int, error)
	Achievements(ctx context.Context) []model.Achievement
	RecentAchievements(ctx context.Context) []model.Achievement
	Notifications(ctx context.Context) []model.Notification
	Catalog(ctx context.Context) service.CatalogView

	ExportBackup(ctx context.Context) ([]byte, error)
	ImportBackup(ctx context.Context, r io.Reader) (model.Pet, error)
	Reset(ctx context.Context) error
	SyncNow(ctx context.Context) error
}

// Handler реализует HTTP-обработчики API сервиса petcare.
type Handler struct {
	service Service
	logger  *zap.Logger
	auth    *middleware.TokenAuth
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.TokenAuth) *Handler {
	return &Handler{
		service: s,
		logger:  logger,
		auth:    auth,
	}
}

type statsResponse struct {
	Hunger      int `json:"hunger"`
	Happiness   int `json:"happiness"`
	Health      int `json:"health"`
	Cleanliness int `json:"cleanliness"`
	Energy      int `json:"energy"`
}

type petResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Species     string            `json:"species"`
	BornAt      time.Time         `json:"bornAt"`
	Stage       model.GrowthStage `json:"stage"`
	Stats       statsResponse     `json:"stats"`
	Experience  int               `json:"experience"`
	Level       int               `json:"level"`
	Balance     int               `json:"balance"`
	Accessories []model.Accessory `json:"accessories"`
}

// newPetResponse округляет характеристики до целых для отображения.
func newPetResponse(p model.Pet) petResponse {
	accessories := p.Accessories
	if accessories == nil {
		accessories = []model.Accessory{}
	}
	return petResponse{
		ID:      p.ID,
		Name:    p.Name,
		Species: p.Species,
		BornAt:  p.BornAt,
		Stage:   p.Stage,
		Stats: statsResponse{
			Hunger:      int(math.Round(p.Stats.Hunger)),
			Happiness:   int(math.Round(p.Stats.Happiness)),
			Health:      int(math.Round(p.Stats.Health)),
			Cleanliness: int(math.Round(p.Stats.Cleanliness)),
			Energy:      int(math.Round(p.Stats.Energy)),
		},
		Experience:  p.Experience,
		Level:       p.Level,
		Balance:     p.Balance,
		Accessories: accessories,
	}
}

type actionResponse struct {
	Result pet.ActionResult `json:"result"`
	Pet    petResponse      `json:"pet"`
}

type onboardRequest struct {
	Name    string `json:"name"`
	Species string `json:"species"`
}

type renameRequest struct {
	Name string `json:"name"`
}

type itemRequest struct {
	Item string `json:"item"`
}

type equipRequest struct {
	ID string `json:"id"`
}

type minigameRequest struct {
	Score int `json:"score"`
}

type dailyResponse struct {
	ID     string `json:"id"`
	Reward int    `json:"reward"`
}

// Onboard создаёт питомца.
func (h *Handler) Onboard(w http.ResponseWriter, r *http.Request) {
	var req onboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	p, err := h.service.Onboard(r.Context(), req.Name, req.Species)
	if err != nil {
		h.writeError(w, "onboard", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, newPetResponse(p))
}

// GetPet возвращает текущее состояние питомца.
func (h *Handler) GetPet(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Pet(r.Context())
	if err != nil {
		h.writeError(w, "get pet", err)
		return
	}

	h.writeJSON(w, http.StatusOK, newPetResponse(p))
}

// Rename меняет имя питомца.
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	p, err := h.service.Rename(r.Context(), req.Name)
	if err != nil {
		h.writeError(w, "rename", err)
		return
	}

	h.writeJSON(w, http.StatusOK, newPetResponse(p))
}

// Feed кормит питомца.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	h.itemAction(w, r, "feed", h.service.Feed)
}

// Play играет с питомцем.
func (h *Handler) Play(w http.ResponseWriter, r *http.Request) {
	h.itemAction(w, r, "play", h.service.Play)
}

// Heal лечит питомца.
func (h *Handler) Heal(w http.ResponseWriter, r *http.Request) {
	h.itemAction(w, r, "heal", h.service.Heal)
}

// Clean моет питомца.
func (h *Handler) Clean(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Clean(r.Context())
	h.respondAction(w, r, "clean", res, err)
}

// Sleep укладывает питомца спать.
func (h *Handler) Sleep(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Sleep(r.Context())
	h.respondAction(w, r, "sleep", res, err)
}

func (h *Handler) itemAction(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	action func(ctx context.Context, itemID string) (pet.ActionResult, error),
) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Item == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	res, err := action(r.Context(), req.Item)
	h.respondAction(w, r, op, res, err)
}

func (h *Handler) respondAction(w http.ResponseWriter, r *http.Request, op string, res pet.ActionResult, err error) {
	if err != nil {
		h.writeError(w, op, err)
		return
	}

	p, err := h.service.Pet(r.Context())
	if err != nil {
		h.writeError(w, op, err)
		return
	}

	h.writeJSON(w, http.StatusOK, actionResponse{Result: res, Pet: newPetResponse(p)})
}

// EquipAccessory покупает и надевает аксессуар.
func (h *Handler) EquipAccessory(w http.ResponseWriter, r *http.Request) {
	var req equipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	p, err := h.service.EquipAccessory(r.Context(), req.ID)
	if err != nil {
		h.writeError(w, "equip accessory", err)
		return
	}

	h.writeJSON(w, http.StatusOK, newPetResponse(p))
}

// UnequipAccessory снимает аксессуар из слота.
func (h *Handler) UnequipAccessory(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.UnequipAccessory(r.Context(), model.Slot(chi.URLParam(r, "slot")))
	if err != nil {
		h.writeError(w, "unequip accessory", err)
		return
	}

	h.writeJSON(w, http.StatusOK, newPetResponse(p))
}

// GetBalance возвращает баланс.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Balance(r.Context())
	if err != nil {
		h.writeError(w, "get balance", err)
		return
	}

	h.writeJSON(w, http.StatusOK, v)
}

// GetTransactions возвращает историю операций.
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.service.Transactions(r.Context())
	if err != nil {
		h.writeError(w, "get transactions", err)
		return
	}

	if len(txs) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, http.StatusOK, txs)
}

// GetBonus возвращает состояние ежедневного бонуса.
func (h *Handler) GetBonus(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.BonusStatus(r.Context())
	if err != nil {
		h.writeError(w, "get bonus", err)
		return
	}

	h.writeJSON(w, http.StatusOK, v)
}

// ClaimBonus получает ежедневный бонус.
func (h *Handler) ClaimBonus(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ClaimBonus(r.Context())
	if err != nil {
		h.writeError(w, "claim bonus", err)
		return
	}

	h.writeJSON(w, http.StatusOK, res)
}

// GetMinigames возвращает мини-игры и их доступность.
func (h *Handler) GetMinigames(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Minigames(r.Context()))
}

// PlayMinigame засчитывает результат мини-игры.
func (h *Handler) PlayMinigame(w http.ResponseWriter, r *http.Request) {
	var req minigameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	res, err := h.service.PlayMinigame(r.Context(), chi.URLParam(r, "id"), req.Score)
	if err != nil {
		h.writeError(w, "play minigame", err)
		return
	}

	h.writeJSON(w, http.StatusOK, res)
}

// GetDailies возвращает ежедневные задания.
func (h *Handler) GetDailies(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Dailies(r.Context())
	if err != nil {
		h.writeError(w, "get dailies", err)
		return
	}

	h.writeJSON(w, http.StatusOK, v)
}

// CompleteDaily выполняет ежедневное задание.
func (h *Handler) CompleteDaily(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	reward, err := h.service.CompleteDaily(r.Context(), id)
	if err != nil {
		h.writeError(w, "complete daily", err)
		return
	}

	h.writeJSON(w, http.StatusOK, dailyResponse{ID: id, Reward: reward})
}

// GetAchievements возвращает достижения с прогрессом.
func (h *Handler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Achievements(r.Context()))
}

// GetRecentAchievements возвращает и очищает очередь недавно открытых достижений.
func (h *Handler) GetRecentAchievements(w http.ResponseWriter, r *http.Request) {
	recent := h.service.RecentAchievements(r.Context())
	if len(recent) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, http.StatusOK, recent)
}

// GetNotifications возвращает последние уведомления.
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	list := h.service.Notifications(r.Context())
	if list == nil {
		list = []model.Notification{}
	}

	h.writeJSON(w, http.StatusOK, list)
}

// GetCatalog возвращает содержимое магазина.
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Catalog(r.Context()))
}

// ExportBackup отдаёт резервную копию питомца.
func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.ExportBackup(r.Context())
	if err != nil {
		h.writeError(w, "export backup", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="petcare-backup.json"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		h.logger.Error("write backup error", zap.Error(err))
	}
}

// ImportBackup восстанавливает питомца из резервной копии.
func (h *Handler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	p, err := h.service.ImportBackup(r.Context(), http.MaxBytesReader(w, r.Body, maxBackupSize))
	if err != nil {
		h.writeError(w, "import backup", err)
		return
	}

	h.writeJSON(w, http.StatusOK, newPetResponse(p))
}

// Reset удаляет питомца и всё состояние.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context()); err != nil {
		h.writeError(w, "reset", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Sync немедленно выгружает резервную копию в облако.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	if err := h.service.SyncNow(r.Context()); err != nil {
		h.writeError(w, "cloud sync", err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
	}
}

// writeError отвечает статусом, соответствующим ошибке. Неизвестные ошибки
// логируются и возвращаются клиенту как 500 без подробностей.
func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(op+" error", zap.Error(err))
		http.Error(w, http.StatusText(status), status)
		return
	}
	http.Error(w, err.Error(), status)
}

func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrNoPet),
		errors.Is(err, service.ErrSlotEmpty),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, daily.ErrNotFound),
		errors.Is(err, achievement.ErrNotFound),
		errors.Is(err, cloudsync.ErrNoRecord):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, service.ErrPetExists),
		errors.Is(err, minigame.ErrOnCooldown),
		errors.Is(err, daily.ErrAlreadyCompleted):
		return http.StatusConflict
	case errors.Is(err, validation.ErrEmptyName),
		errors.Is(err, validation.ErrNameTooLong),
		errors.Is(err, validation.ErrInvalidName),
		errors.Is(err, validation.ErrUnknownSpecies),
		errors.Is(err, service.ErrInvalidSlot):
		return http.StatusUnprocessableEntity
	case errors.Is(err, backup.ErrInvalidDocument),
		errors.Is(err, backup.ErrUnsupportedVersion),
		errors.Is(err, ledger.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, cloudsync.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
