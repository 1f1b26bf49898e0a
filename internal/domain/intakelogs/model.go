package intakelogs

import "time"

// Outcome es el resultado registrado para una toma.
// @Enum taken, missed, skipped
type Outcome string

const (
	OutcomeTaken   Outcome = "taken"
	OutcomeMissed  Outcome = "missed"
	OutcomeSkipped Outcome = "skipped"
)

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeTaken, OutcomeMissed, OutcomeSkipped:
		return true
	default:
		return false
	}
}

// IntakeLog registra un evento de toma. Es inmutable una vez creado.
type IntakeLog struct {
	ID          string
	OwnerUserID string

	// Referencia (no ownership): el log sobrevive a ediciones/archivado de la medicación.
	MedicationID  string
	ScheduledSlot string

	OccurredAt time.Time
	RecordedAt time.Time

	Outcome Outcome
}
