package router

import (
	"database/sql"
	"net/http"
	"time"

	mem "medication-adherence/internal/adapters/storage/memory"
	pg "medication-adherence/internal/adapters/storage/postgres"
	_ "medication-adherence/internal/docs"
	"medication-adherence/internal/domain/adherence"
	"medication-adherence/internal/domain/intakelogs"
	"medication-adherence/internal/domain/medications"
	"medication-adherence/internal/domain/reports"
	"medication-adherence/internal/middleware"
	"medication-adherence/internal/platform/logger"
	"medication-adherence/internal/ports/auth"
	"medication-adherence/internal/ports/insights"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger logger.Logger

	// Opcional: sin generador los insights responden status "unavailable".
	Insights       insights.Generator
	InsightTimeout time.Duration

	DefaultWindowDays int
	SwaggerEnabled    bool

	// Solo para tests: reloj del reporte.
	Now func() time.Time
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(log))
	r.Use(middleware.Recover(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	if opts.SwaggerEnabled {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	var (
		medRepo medications.Repository
		logRepo intakelogs.Repository
	)
	if opts.DB != nil {
		medRepo = pg.NewMedicationsRepo(opts.DB)
		logRepo = pg.NewIntakeLogsRepo(opts.DB)
	} else {
		medRepo = mem.NewMedicationRepo()
		logRepo = mem.NewIntakeLogRepo()
	}

	// Services por módulo
	medsSvc := medications.NewService(medRepo)
	logsSvc := intakelogs.NewService(logRepo, medsSvc)

	engine := adherence.NewEngine(adherence.EngineOptions{
		Generator:      opts.Insights,
		InsightTimeout: opts.InsightTimeout,
		Logger:         log.With(map[string]any{"component": "adherence"}),
	})
	reportsSvc := reports.NewService(medRepo, logRepo, engine, reports.Options{
		DefaultWindowDays: opts.DefaultWindowDays,
		Logger:            log.With(map[string]any{"component": "reports"}),
	})
	if opts.Now != nil {
		reportsSvc.SetClock(opts.Now)
	}

	// Rutas por módulo
	medications.RegisterRoutes(r, medsSvc)
	intakelogs.RegisterRoutes(r, logsSvc)
	reports.RegisterRoutes(r, reportsSvc)

	return r
}
