package reports

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"medication-adherence/internal/domain/adherence"
	"medication-adherence/internal/middleware"

	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/reports/adherence", adherenceReportHandler(svc))
}

// adherenceReportHandler godoc
// @Summary Reporte de adherencia
// @Description Calcula el resumen de adherencia del paciente en la ventana pedida. Las fechas aceptan YYYY-MM-DD (día completo UTC) o RFC3339. Sin ventana se usan los últimos días configurados. Con `include_insights=true` agrega un texto narrativo; si el servicio externo falla, el resumen igual se devuelve y `insights.status` indica la causa.
// @Tags reports
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param from query string false "Inicio de la ventana (YYYY-MM-DD o RFC3339)"
// @Param to query string false "Fin de la ventana (YYYY-MM-DD o RFC3339)"
// @Param include_insights query bool false "Pedir insights narrativos"
// @Param include_expired query bool false "Incluir medicaciones vencidas"
// @Success 200 {object} adherence.Report
// @Failure 400 {string} string "parámetros inválidos / ventana inválida"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /reports/adherence [get]
func adherenceReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		req, err := parseReportRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req.OwnerUserID = userID

		rep, err := svc.Generate(r.Context(), req)
		if err != nil {
			var verr *adherence.ValidationError
			if errors.As(err, &verr) {
				http.Error(w, verr.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, rep)
	}
}

func parseReportRequest(r *http.Request) (Request, error) {
	q := r.URL.Query()
	var req Request

	from, err := parseBound(q.Get("from"), false)
	if err != nil {
		return Request{}, errors.New("from must be YYYY-MM-DD or RFC3339")
	}
	to, err := parseBound(q.Get("to"), true)
	if err != nil {
		return Request{}, errors.New("to must be YYYY-MM-DD or RFC3339")
	}
	req.From, req.To = from, to

	if req.IncludeInsights, err = parseBool(q.Get("include_insights")); err != nil {
		return Request{}, errors.New("include_insights must be a boolean")
	}
	if req.IncludeExpired, err = parseBool(q.Get("include_expired")); err != nil {
		return Request{}, errors.New("include_expired must be a boolean")
	}

	return req, nil
}

// parseBound: YYYY-MM-DD cubre el día completo (inicio o fin según endOfDay);
// RFC3339 se usa tal cual.
func parseBound(v string, endOfDay bool) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if d, err := time.Parse(dateLayout, v); err == nil {
		w := adherence.DayWindow(d, d)
		if endOfDay {
			return &w.End, nil
		}
		return &w.Start, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseBool(v string) (bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
