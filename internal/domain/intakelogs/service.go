package intakelogs

import (
	"context"
	"errors"
	"strings"
	"time"

	"medication-adherence/internal/domain/medications"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrMedicationNotFound = errors.New("medication not found")
)

// MedicationLookup evita depender del Service concreto de medications.
type MedicationLookup interface {
	GetByID(ctx context.Context, id string) (medications.Medication, error)
}

type Service struct {
	repo Repository
	meds MedicationLookup
	now  func() time.Time
}

func NewService(repo Repository, meds MedicationLookup) *Service {
	return &Service{
		repo: repo,
		meds: meds,
		now:  time.Now,
	}
}

type RecordInput struct {
	MedicationID  string
	ScheduledSlot string
	OccurredAt    time.Time
	Outcome       Outcome
}

func (s *Service) Record(ctx context.Context, ownerUserID string, in RecordInput) (IntakeLog, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	medID := strings.TrimSpace(in.MedicationID)
	if ownerUserID == "" || medID == "" {
		return IntakeLog{}, ErrInvalidInput
	}
	if !in.Outcome.Valid() {
		return IntakeLog{}, ErrInvalidInput
	}
	if in.OccurredAt.IsZero() {
		return IntakeLog{}, ErrInvalidInput
	}

	// La medicación debe existir y ser del mismo paciente.
	// Para no filtrar existencia, ambos casos responden "not found".
	m, err := s.meds.GetByID(ctx, medID)
	if err != nil || m.OwnerUserID != ownerUserID {
		return IntakeLog{}, ErrMedicationNotFound
	}
	if m.IsArchived {
		return IntakeLog{}, ErrInvalidInput
	}

	slot := strings.TrimSpace(in.ScheduledSlot)
	if slot != "" && len(m.ScheduleSlots) > 0 && !m.HasSlot(slot) {
		return IntakeLog{}, ErrInvalidInput
	}

	l := IntakeLog{
		ID:            uuid.NewString(),
		OwnerUserID:   ownerUserID,
		MedicationID:  m.ID,
		ScheduledSlot: slot,
		OccurredAt:    in.OccurredAt.UTC(),
		RecordedAt:    s.now(),
		Outcome:       in.Outcome,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return IntakeLog{}, err
	}
	return l, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string, filter ListFilter) ([]IntakeLog, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, ErrInvalidInput
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, ownerUserID, filter)
}
