package adherence

import (
	"context"
	"time"

	"medication-adherence/internal/domain/intakelogs"
	"medication-adherence/internal/domain/medications"
	"medication-adherence/internal/platform/logger"
	"medication-adherence/internal/ports/insights"
)

const DefaultInsightTimeout = 20 * time.Second

type Options struct {
	IncludeInsights bool
}

// Report es el artefacto que consumen la UI y el renderer de documentos.
type Report struct {
	Summary  Summary        `json:"summary"`
	Insights *InsightResult `json:"insights,omitempty"`
}

// Engine no guarda estado entre llamadas; es seguro usarlo concurrentemente.
type Engine struct {
	generator insights.Generator
	timeout   time.Duration
	log       logger.Logger
}

type EngineOptions struct {
	Generator      insights.Generator // nil: insights deshabilitados
	InsightTimeout time.Duration
	Logger         logger.Logger
}

func NewEngine(opts EngineOptions) *Engine {
	timeout := opts.InsightTimeout
	if timeout <= 0 {
		timeout = DefaultInsightTimeout
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		generator: opts.Generator,
		timeout:   timeout,
		log:       log,
	}
}

// GenerateReport calcula el resumen y, si se pide, agrega los insights.
// Solo falla con *ValidationError; los problemas del generador quedan en Report.Insights.
func (e *Engine) GenerateReport(
	ctx context.Context,
	meds []medications.Medication,
	logs []intakelogs.IntakeLog,
	w Window,
	opts Options,
) (Report, error) {
	summary, err := BuildSummary(meds, logs, w)
	if err != nil {
		return Report{}, err
	}

	rep := Report{Summary: summary}
	if !opts.IncludeInsights {
		return rep, nil
	}

	res := e.Insights(ctx, summary)
	rep.Insights = &res
	return rep, nil
}

// Insights hace la llamada externa con timeout propio. Se puede usar por
// separado cuando el caller ya devolvió el Summary.
func (e *Engine) Insights(ctx context.Context, s Summary) InsightResult {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	text, err := RequestInsights(ctx, e.generator, s)
	res := resultOf(text, err)

	fields := map[string]any{
		"status":      string(res.Status),
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		fields["error"] = err.Error()
		e.log.Warn("insights not available", fields)
	} else {
		e.log.Debug("insights generated", fields)
	}
	return res
}
