package reports

import (
	"context"
	"errors"
	"strings"
	"time"

	"medication-adherence/internal/domain/adherence"
	"medication-adherence/internal/domain/intakelogs"
	"medication-adherence/internal/domain/medications"
	"medication-adherence/internal/platform/logger"
	"medication-adherence/internal/platform/metrics"
)

const DefaultWindowDays = 30

var (
	ErrInvalidInput = errors.New("invalid input")
)

// MedicationSource y IntakeSource son los repos (o services) de los que se
// toma el snapshot del paciente.
type MedicationSource interface {
	ListByOwner(ctx context.Context, ownerUserID string, filter medications.ListFilter) ([]medications.Medication, error)
}

type IntakeSource interface {
	ListByOwner(ctx context.Context, ownerUserID string, filter intakelogs.ListFilter) ([]intakelogs.IntakeLog, error)
}

type Service struct {
	meds       MedicationSource
	logs       IntakeSource
	engine     *adherence.Engine
	windowDays int
	log        logger.Logger
	now        func() time.Time
}

type Options struct {
	DefaultWindowDays int
	Logger            logger.Logger
}

func NewService(meds MedicationSource, logs IntakeSource, engine *adherence.Engine, opts Options) *Service {
	days := opts.DefaultWindowDays
	if days <= 0 {
		days = DefaultWindowDays
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		meds:       meds,
		logs:       logs,
		engine:     engine,
		windowDays: days,
		log:        log,
		now:        time.Now,
	}
}

// Request pide un reporte. From/To nil se completan con la ventana por defecto
// (los últimos N días terminando hoy, en días UTC completos).
type Request struct {
	OwnerUserID     string
	From            *time.Time
	To              *time.Time
	IncludeInsights bool
	IncludeExpired  bool
}

// Generate arma el snapshot del paciente y corre el motor de adherencia.
// Los errores de ventana se devuelven como *adherence.ValidationError.
func (s *Service) Generate(ctx context.Context, req Request) (adherence.Report, error) {
	owner := strings.TrimSpace(req.OwnerUserID)
	if owner == "" {
		return adherence.Report{}, ErrInvalidInput
	}

	start := time.Now()
	now := s.now()
	w := s.window(now, req.From, req.To)
	if err := w.Validate(); err != nil {
		return adherence.Report{}, err
	}

	meds, err := s.meds.ListByOwner(ctx, owner, medications.ListFilter{})
	if err != nil {
		return adherence.Report{}, err
	}
	meds = adherence.SelectEligible(meds, now, req.IncludeExpired)

	var logs []intakelogs.IntakeLog
	if len(meds) > 0 {
		ids := make([]string, 0, len(meds))
		for _, m := range meds {
			ids = append(ids, m.ID)
		}
		logs, err = s.logs.ListByOwner(ctx, owner, intakelogs.ListFilter{
			MedicationIDs: ids,
			From:          &w.Start,
			To:            &w.End,
		})
		if err != nil {
			return adherence.Report{}, err
		}
	}

	rep, err := s.engine.GenerateReport(ctx, meds, logs, w, adherence.Options{IncludeInsights: req.IncludeInsights})
	if err != nil {
		return adherence.Report{}, err
	}

	metrics.ObserveReport(req.IncludeInsights, time.Since(start))
	if rep.Insights != nil {
		metrics.ObserveInsight(string(rep.Insights.Status))
	}

	s.log.Info("adherence report generated", map[string]any{
		"user_id":        owner,
		"medications":    len(meds),
		"intake_logs":    len(logs),
		"period_days":    rep.Summary.Period.Days,
		"adherence_rate": rep.Summary.AdherenceRate,
		"insights":       req.IncludeInsights,
	})

	return rep, nil
}

func (s *Service) window(now time.Time, from, to *time.Time) adherence.Window {
	var w adherence.Window
	if to != nil {
		w.End = *to
	} else {
		w.End = adherence.DayWindow(now, now).End
	}
	if from != nil {
		w.Start = *from
	} else {
		anchor := w.End.AddDate(0, 0, -(s.windowDays - 1))
		w.Start = adherence.DayWindow(anchor, anchor).Start
	}
	return w
}

// SetClock reemplaza el reloj usado para la ventana por defecto y el filtro de vencidas.
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}
