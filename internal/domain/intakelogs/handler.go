package intakelogs

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"medication-adherence/internal/middleware"

	"github.com/go-chi/chi/v5"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/intake-logs", func(lr chi.Router) {
		lr.Post("/", recordIntakeHandler(svc))
		lr.Get("/", listIntakeLogsHandler(svc))
	})
}

// recordIntakeRequest es el cuerpo para registrar una toma.
type recordIntakeRequest struct {
	MedicationID  string  `json:"medication_id"`
	ScheduledSlot string  `json:"scheduled_slot"` // opcional; si viene debe ser un slot de la medicación
	OccurredAt    string  `json:"occurred_at"`    // RFC3339
	Outcome       Outcome `json:"outcome" enums:"taken,missed,skipped"`
}

// intakeLogResponse representa un registro de toma devuelto por la API.
type intakeLogResponse struct {
	ID            string    `json:"id"`
	MedicationID  string    `json:"medication_id"`
	ScheduledSlot string    `json:"scheduled_slot"`
	OccurredAt    time.Time `json:"occurred_at"`
	RecordedAt    time.Time `json:"recorded_at"`
	Outcome       Outcome   `json:"outcome"`
}

// recordIntakeHandler godoc
// @Summary Registrar toma
// @Description Registra el resultado de una toma (taken, missed, skipped) para una medicación propia y no archivada. Los registros son inmutables.
// @Tags intake-logs
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body recordIntakeRequest true "Datos de la toma; occurred_at en formato RFC3339"
// @Success 201 {object} intakeLogResponse
// @Failure 400 {string} string "invalid json / occurred_at inválido / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found"
// @Failure 500 {string} string "internal error"
// @Router /intake-logs [post]
func recordIntakeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req recordIntakeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := time.Parse(time.RFC3339, strings.TrimSpace(req.OccurredAt))
		if err != nil {
			http.Error(w, "occurred_at must be RFC3339", http.StatusBadRequest)
			return
		}

		l, err := svc.Record(r.Context(), userID, RecordInput{
			MedicationID:  req.MedicationID,
			ScheduledSlot: req.ScheduledSlot,
			OccurredAt:    t,
			Outcome:       req.Outcome,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrMedicationNotFound):
				http.Error(w, "medication not found", http.StatusNotFound)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toIntakeLogResponse(l))
	}
}

// listIntakeLogsHandler godoc
// @Summary Listar tomas
// @Description Lista los registros de toma del paciente, más recientes primero.
// @Tags intake-logs
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param medication_id query string false "Lista CSV de IDs de medicación"
// @Param outcome query string false "Lista CSV de resultados (taken,missed,skipped)"
// @Param from query string false "occurred_at mínimo (RFC3339)"
// @Param to query string false "occurred_at máximo (RFC3339)"
// @Param limit query int false "Máximo de registros (1-500). Por defecto 100"
// @Success 200 {array} intakeLogResponse
// @Failure 400 {string} string "Parámetros de filtro inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /intake-logs [get]
func listIntakeLogsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		filter, err := parseListFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.ListByOwner(r.Context(), userID, filter)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "from must not be after to", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]intakeLogResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toIntakeLogResponse(l))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()

	limit := defaultListLimit
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxListLimit {
			limit = n
		}
	}
	filter := ListFilter{Limit: limit}

	if ids := splitCSV(q.Get("medication_id")); len(ids) > 0 {
		filter.MedicationIDs = ids
	}

	for _, v := range splitCSV(q.Get("outcome")) {
		o := Outcome(v)
		if !o.Valid() {
			return ListFilter{}, errors.New("outcome must be taken, missed or skipped")
		}
		filter.Outcomes = append(filter.Outcomes, o)
	}

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("from must be RFC3339")
		}
		filter.From = &t
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("to must be RFC3339")
		}
		filter.To = &t
	}

	return filter, nil
}

func splitCSV(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func toIntakeLogResponse(l IntakeLog) intakeLogResponse {
	return intakeLogResponse{
		ID:            l.ID,
		MedicationID:  l.MedicationID,
		ScheduledSlot: l.ScheduledSlot,
		OccurredAt:    l.OccurredAt,
		RecordedAt:    l.RecordedAt,
		Outcome:       l.Outcome,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
