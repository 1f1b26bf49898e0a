package insights

import (
	"context"
	"errors"
)

// Errores que el adapter debe devolver (wrapeados con %w) para que el caller
// pueda distinguir el tipo de falla.
var (
	ErrRateLimited     = errors.New("insights rate limited")
	ErrPaymentRequired = errors.New("insights payment required")
	ErrUpstream        = errors.New("insights upstream error")
	ErrNotConfigured   = errors.New("insights generator not configured")
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Request struct {
	Messages []Message
}

// Generator genera texto narrativo a partir de mensajes tipo chat.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
