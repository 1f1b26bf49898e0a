package adherence

import (
	"medication-adherence/internal/domain/intakelogs"
	"medication-adherence/internal/domain/medications"
)

// ExpectedDoses devuelve las dosis esperadas y si el valor está definido.
// AsNeeded no tiene dosis esperadas (ok=false).
func ExpectedDoses(m medications.Medication, overlapDays int) (expected int, ok bool) {
	switch m.Classification {
	case medications.ClassificationOneTime:
		return 1, true
	case medications.ClassificationAsNeeded:
		return 0, false
	case medications.ClassificationPrescription:
		if overlapDays <= 0 {
			return 0, true
		}
		return m.SlotsPerDay() * overlapDays, true
	default:
		return 0, false
	}
}

// OutcomeCounts agrupa los logs de una medicación por resultado.
type OutcomeCounts struct {
	Taken   int
	Missed  int
	Skipped int
}

// GroupOutcomes cuenta los logs dentro de la ventana por medicación y resultado.
// Outcomes desconocidos se ignoran; BuildSummary los rechaza antes de agrupar.
func GroupOutcomes(logs []intakelogs.IntakeLog, w Window) map[string]OutcomeCounts {
	out := map[string]OutcomeCounts{}
	for _, l := range logs {
		if !w.Contains(l.OccurredAt) {
			continue
		}
		c := out[l.MedicationID]
		switch l.Outcome {
		case intakelogs.OutcomeTaken:
			c.Taken++
		case intakelogs.OutcomeMissed:
			c.Missed++
		case intakelogs.OutcomeSkipped:
			c.Skipped++
		default:
			continue
		}
		out[l.MedicationID] = c
	}
	return out
}

// GroupTaken cuenta tomas "taken" dentro de la ventana por medicación.
// Las medicaciones sin tomas no aparecen en el mapa (leer como 0).
func GroupTaken(logs []intakelogs.IntakeLog, w Window) map[string]int {
	out := map[string]int{}
	for id, c := range GroupOutcomes(logs, w) {
		if c.Taken > 0 {
			out[id] = c.Taken
		}
	}
	return out
}

// Percent redondea taken/expected*100 al entero más cercano, mitades hacia arriba.
func Percent(taken, expected int) int {
	if expected <= 0 || taken <= 0 {
		return 0
	}
	return (taken*200 + expected) / (2 * expected)
}
