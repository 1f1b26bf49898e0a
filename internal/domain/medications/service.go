package medications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name           string
	Dosage         string
	ScheduleSlots  []string
	Classification Classification
	ActiveFrom     *time.Time
	ActiveUntil    *time.Time
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Medication, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Medication{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Medication{}, ErrInvalidInput
	}

	cls := in.Classification
	if cls == "" {
		cls = ClassificationPrescription
	}
	if !cls.Valid() {
		return Medication{}, ErrInvalidInput
	}

	if in.ActiveFrom != nil && in.ActiveUntil != nil && in.ActiveUntil.Before(*in.ActiveFrom) {
		return Medication{}, ErrInvalidInput
	}

	now := s.now()
	m := Medication{
		ID:             uuid.NewString(),
		OwnerUserID:    ownerUserID,
		Name:           strings.TrimSpace(in.Name),
		Dosage:         strings.TrimSpace(in.Dosage),
		ScheduleSlots:  normalizeSlots(in.ScheduleSlots),
		Classification: cls,
		ActiveFrom:     in.ActiveFrom,
		ActiveUntil:    in.ActiveUntil,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrInvalidInput
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medication{}, ErrNotFound
	}
	return m, nil
}

// GetOwned trae la medicación y valida que pertenezca a ownerUserID.
func (s *Service) GetOwned(ctx context.Context, id, ownerUserID string) (Medication, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return Medication{}, err
	}
	if m.OwnerUserID != ownerUserID {
		return Medication{}, ErrForbidden
	}
	return m, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string, filter ListFilter) ([]Medication, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, ownerUserID, filter)
}

// Renew extiende active_until. No se permite acortar ni terminar antes de active_from.
func (s *Service) Renew(ctx context.Context, id, ownerUserID string, until time.Time) (Medication, error) {
	if until.IsZero() {
		return Medication{}, ErrInvalidInput
	}

	m, err := s.GetOwned(ctx, id, ownerUserID)
	if err != nil {
		return Medication{}, err
	}
	if m.IsArchived {
		return Medication{}, ErrInvalidInput
	}
	if m.ActiveFrom != nil && until.Before(*m.ActiveFrom) {
		return Medication{}, ErrInvalidInput
	}
	if m.ActiveUntil != nil && !until.After(*m.ActiveUntil) {
		return Medication{}, ErrInvalidInput
	}

	m.ActiveUntil = &until
	m.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

// Archive es un soft delete: los logs históricos siguen apuntando a la medicación.
func (s *Service) Archive(ctx context.Context, id, ownerUserID string) (Medication, error) {
	m, err := s.GetOwned(ctx, id, ownerUserID)
	if err != nil {
		return Medication{}, err
	}

	// Idempotente
	if m.IsArchived {
		return m, nil
	}

	m.IsArchived = true
	m.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

func normalizeSlots(in []string) []string {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
