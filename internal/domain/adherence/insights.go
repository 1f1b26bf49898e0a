package adherence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medication-adherence/internal/ports/insights"
)

// InsightStatus indica el resultado de pedir insights narrativos.
// @Enum ok, rate_limited, payment_required, upstream_error, unavailable
type InsightStatus string

const (
	InsightStatusOK              InsightStatus = "ok"
	InsightStatusRateLimited     InsightStatus = "rate_limited"
	InsightStatusPaymentRequired InsightStatus = "payment_required"
	InsightStatusUpstreamError   InsightStatus = "upstream_error"
	InsightStatusUnavailable     InsightStatus = "unavailable"
)

// InsightResult viaja junto al Summary. Text solo viene con status ok.
type InsightResult struct {
	Status  InsightStatus `json:"status"`
	Text    string        `json:"text,omitempty"`
	Message string        `json:"message,omitempty"`
}

// RequestInsights pide el texto narrativo al generador. No reintenta.
func RequestInsights(ctx context.Context, gen insights.Generator, s Summary) (string, error) {
	if gen == nil {
		return "", insights.ErrNotConfigured
	}

	text, err := gen.Generate(ctx, BuildRequest(s))
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", insights.ErrUpstream)
	}
	return text, nil
}

// StatusOf clasifica el error devuelto por RequestInsights.
func StatusOf(err error) InsightStatus {
	switch {
	case err == nil:
		return InsightStatusOK
	case errors.Is(err, insights.ErrRateLimited):
		return InsightStatusRateLimited
	case errors.Is(err, insights.ErrPaymentRequired):
		return InsightStatusPaymentRequired
	case errors.Is(err, insights.ErrNotConfigured):
		return InsightStatusUnavailable
	default:
		// ErrUpstream, timeouts y cualquier otra falla de transporte.
		return InsightStatusUpstreamError
	}
}

// messages visibles para la UI.
var statusMessages = map[InsightStatus]string{
	InsightStatusRateLimited:     "Too many insight requests right now. Please try again in a few minutes.",
	InsightStatusPaymentRequired: "AI insight credits are exhausted. The numeric report is still available.",
	InsightStatusUpstreamError:   "Insights could not be generated. The numeric report is still available.",
	InsightStatusUnavailable:     "Insights are not enabled for this deployment.",
}

func resultOf(text string, err error) InsightResult {
	st := StatusOf(err)
	if st == InsightStatusOK {
		return InsightResult{Status: st, Text: text}
	}
	return InsightResult{Status: st, Message: statusMessages[st]}
}
