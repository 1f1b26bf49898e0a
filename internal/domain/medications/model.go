package medications

import "time"

// Classification define cómo cuenta la medicación para adherencia.
// @Enum prescription, one_time, as_needed
type Classification string

const (
	// ClassificationPrescription: esquema recurrente, entra en la tasa de adherencia.
	ClassificationPrescription Classification = "prescription"
	// ClassificationOneTime: una única dosis (ej. vacuna, antibiótico monodosis).
	ClassificationOneTime Classification = "one_time"
	// ClassificationAsNeeded: a demanda; solo se reportan las tomas.
	ClassificationAsNeeded Classification = "as_needed"
)

func (c Classification) Valid() bool {
	switch c {
	case ClassificationPrescription, ClassificationOneTime, ClassificationAsNeeded:
		return true
	default:
		return false
	}
}

// Medication representa una medicación registrada por el paciente.
type Medication struct {
	ID          string
	OwnerUserID string

	Name   string
	Dosage string // texto libre: "500 mg", "2 gotas"

	// Franjas horarias del día ("Morning", "Bedtime"). La cantidad define dosis/día.
	ScheduleSlots  []string
	Classification Classification

	// nil = activa desde siempre / sin fecha de fin.
	ActiveFrom  *time.Time
	ActiveUntil *time.Time

	IsArchived bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SlotsPerDay devuelve la cardinalidad del esquema diario.
// Una lista vacía se interpreta como 1 dosis/día.
func (m Medication) SlotsPerDay() int {
	if len(m.ScheduleSlots) == 0 {
		return 1
	}
	return len(m.ScheduleSlots)
}

// HasSlot indica si slot pertenece al esquema de la medicación.
func (m Medication) HasSlot(slot string) bool {
	for _, s := range m.ScheduleSlots {
		if s == slot {
			return true
		}
	}
	return false
}
