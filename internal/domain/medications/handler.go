package medications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"medication-adherence/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/medications", func(mr chi.Router) {
		mr.Post("/", createMedicationHandler(svc))
		mr.Get("/", listMedicationsHandler(svc))
		mr.Get("/{medicationID}", getMedicationHandler(svc))

		mr.Post("/{medicationID}/renew", renewMedicationHandler(svc))
		mr.Post("/{medicationID}/archive", archiveMedicationHandler(svc))
	})
}

// createMedicationRequest es el cuerpo para registrar una medicación.
type createMedicationRequest struct {
	Name           string         `json:"name"`
	Dosage         string         `json:"dosage"`
	ScheduleSlots  []string       `json:"schedule_slots"`
	Classification Classification `json:"classification" enums:"prescription,one_time,as_needed"`
	ActiveFrom     string         `json:"active_from"`  // YYYY-MM-DD o RFC3339, opcional
	ActiveUntil    string         `json:"active_until"` // YYYY-MM-DD o RFC3339, opcional
}

type renewMedicationRequest struct {
	ActiveUntil string `json:"active_until"` // YYYY-MM-DD o RFC3339
}

// medicationResponse es la medicación tal como la devuelve la API.
type medicationResponse struct {
	ID             string         `json:"id"`
	OwnerUserID    string         `json:"owner_user_id"`
	Name           string         `json:"name"`
	Dosage         string         `json:"dosage"`
	ScheduleSlots  []string       `json:"schedule_slots"`
	SlotsPerDay    int            `json:"slots_per_day"`
	Classification Classification `json:"classification"`
	ActiveFrom     *time.Time     `json:"active_from,omitempty"`
	ActiveUntil    *time.Time     `json:"active_until,omitempty"`
	IsArchived     bool           `json:"is_archived"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// createMedicationHandler godoc
// @Summary Registrar medicación
// @Description Registra una medicación del paciente autenticado. Si no se indica classification se asume `prescription`. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags medications
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createMedicationRequest true "Datos de la medicación"
// @Success 201 {object} medicationResponse
// @Failure 400 {string} string "invalid json / fechas inválidas / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /medications [post]
func createMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		from, err := parseOptionalDate(req.ActiveFrom)
		if err != nil {
			http.Error(w, "active_from must be YYYY-MM-DD or RFC3339", http.StatusBadRequest)
			return
		}
		until, err := parseOptionalDate(req.ActiveUntil)
		if err != nil {
			http.Error(w, "active_until must be YYYY-MM-DD or RFC3339", http.StatusBadRequest)
			return
		}

		m, err := svc.Create(r.Context(), userID, CreateInput{
			Name:           req.Name,
			Dosage:         req.Dosage,
			ScheduleSlots:  req.ScheduleSlots,
			Classification: req.Classification,
			ActiveFrom:     from,
			ActiveUntil:    until,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toMedicationResponse(m))
	}
}

// listMedicationsHandler godoc
// @Summary Listar medicaciones
// @Description Lista las medicaciones del paciente autenticado. Las archivadas solo se incluyen con `include_archived=true`.
// @Tags medications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param include_archived query bool false "Incluir medicaciones archivadas"
// @Success 200 {array} medicationResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /medications [get]
func listMedicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		filter := ListFilter{IncludeArchived: r.URL.Query().Get("include_archived") == "true"}
		items, err := svc.ListByOwner(r.Context(), userID, filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(m))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// getMedicationHandler godoc
// @Summary Obtener medicación
// @Tags medications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param medicationID path string true "ID de la medicación"
// @Success 200 {object} medicationResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID} [get]
func getMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.GetOwned(r.Context(), chi.URLParam(r, "medicationID"), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

// renewMedicationHandler godoc
// @Summary Renovar medicación
// @Description Extiende active_until. No se permite acortar el período ni renovar una medicación archivada.
// @Tags medications
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param medicationID path string true "ID de la medicación"
// @Param payload body renewMedicationRequest true "Nueva fecha de fin"
// @Success 200 {object} medicationResponse
// @Failure 400 {string} string "invalid json / fecha inválida / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID}/renew [post]
func renewMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req renewMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		until, err := parseOptionalDate(req.ActiveUntil)
		if err != nil || until == nil {
			http.Error(w, "active_until must be YYYY-MM-DD or RFC3339", http.StatusBadRequest)
			return
		}

		m, err := svc.Renew(r.Context(), chi.URLParam(r, "medicationID"), userID, *until)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

// archiveMedicationHandler godoc
// @Summary Archivar medicación
// @Description Soft delete. Los registros de toma existentes se conservan. Es idempotente.
// @Tags medications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param medicationID path string true "ID de la medicación"
// @Success 200 {object} medicationResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID}/archive [post]
func archiveMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.Archive(r.Context(), chi.URLParam(r, "medicationID"), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "medication not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// parseOptionalDate acepta YYYY-MM-DD (medianoche UTC) o RFC3339. Vacío => nil.
func parseOptionalDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

func toMedicationResponse(m Medication) medicationResponse {
	slots := m.ScheduleSlots
	if slots == nil {
		slots = []string{}
	}
	return medicationResponse{
		ID:             m.ID,
		OwnerUserID:    m.OwnerUserID,
		Name:           m.Name,
		Dosage:         m.Dosage,
		ScheduleSlots:  slots,
		SlotsPerDay:    m.SlotsPerDay(),
		Classification: m.Classification,
		ActiveFrom:     m.ActiveFrom,
		ActiveUntil:    m.ActiveUntil,
		IsArchived:     m.IsArchived,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
