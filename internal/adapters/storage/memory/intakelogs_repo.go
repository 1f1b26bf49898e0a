package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"medication-adherence/internal/domain/intakelogs"
)

type intakeLogRepo struct {
	mu   sync.RWMutex
	byID map[string]intakelogs.IntakeLog
}

func NewIntakeLogRepo() intakelogs.Repository {
	return &intakeLogRepo{
		byID: make(map[string]intakelogs.IntakeLog),
	}
}

func (r *intakeLogRepo) Create(ctx context.Context, l intakelogs.IntakeLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l.ID == "" {
		return errors.New("intake log id required")
	}
	if _, exists := r.byID[l.ID]; exists {
		return errors.New("intake log already exists")
	}

	r.byID[l.ID] = l
	return nil
}

func (r *intakeLogRepo) ListByOwner(ctx context.Context, ownerUserID string, filter intakelogs.ListFilter) ([]intakelogs.IntakeLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meds := toSet(filter.MedicationIDs)
	out := make([]intakelogs.IntakeLog, 0)

	for _, l := range r.byID {
		if l.OwnerUserID != ownerUserID {
			continue
		}
		if meds != nil {
			if _, ok := meds[l.MedicationID]; !ok {
				continue
			}
		}
		if len(filter.Outcomes) > 0 && !hasOutcome(filter.Outcomes, l.Outcome) {
			continue
		}

		// Date filters (occurred_at, ambos inclusivos)
		if filter.From != nil && l.OccurredAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && l.OccurredAt.After(*filter.To) {
			continue
		}

		out = append(out, l)
	}

	// Orden por occurred_at desc (más reciente primero)
	sort.Slice(out, func(i, j int) bool {
		if out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}

	return out, nil
}

// toSet devuelve nil si no hay filtro.
func toSet(ids []string) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func hasOutcome(list []intakelogs.Outcome, o intakelogs.Outcome) bool {
	for _, x := range list {
		if x == o {
			return true
		}
	}
	return false
}
