package intakelogs

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l IntakeLog) error
	ListByOwner(ctx context.Context, ownerUserID string, filter ListFilter) ([]IntakeLog, error)
}

type ListFilter struct {
	MedicationIDs []string
	Outcomes      []Outcome
	From          *time.Time
	To            *time.Time
	Limit         int // <= 0: sin límite
}
