package adherence

import (
	"testing"
	"time"

	"medication-adherence/internal/domain/intakelogs"
	"medication-adherence/internal/domain/medications"

	"github.com/stretchr/testify/assert"
)

func TestExpectedDoses(t *testing.T) {
	rx := medications.Medication{Classification: medications.ClassificationPrescription, ScheduleSlots: []string{"Morning", "Bedtime"}}

	got, ok := ExpectedDoses(rx, 7)
	assert.True(t, ok)
	assert.Equal(t, 14, got)

	got, ok = ExpectedDoses(rx, 0)
	assert.True(t, ok)
	assert.Equal(t, 0, got)

	// sin slots => 1 por día
	got, _ = ExpectedDoses(medications.Medication{Classification: medications.ClassificationPrescription}, 3)
	assert.Equal(t, 3, got)

	for _, days := range []int{0, 1, 30, 365} {
		got, ok = ExpectedDoses(medications.Medication{Classification: medications.ClassificationOneTime, ScheduleSlots: []string{"a", "b"}}, days)
		assert.True(t, ok)
		assert.Equal(t, 1, got)
	}

	_, ok = ExpectedDoses(medications.Medication{Classification: medications.ClassificationAsNeeded}, 7)
	assert.False(t, ok)
}

func TestPercent_RoundsHalfUp(t *testing.T) {
	assert.Equal(t, 71, Percent(10, 14)) // 71.43
	assert.Equal(t, 67, Percent(2, 3))   // 66.67
	assert.Equal(t, 13, Percent(1, 8))   // 12.5
	assert.Equal(t, 50, Percent(1, 2))
	assert.Equal(t, 100, Percent(5, 5))
	assert.Equal(t, 0, Percent(3, 0))
	assert.Equal(t, 0, Percent(0, 10))
}

func TestGroupTaken(t *testing.T) {
	w := week()
	logs := []intakelogs.IntakeLog{
		{MedicationID: "a", Outcome: intakelogs.OutcomeTaken, OccurredAt: w.Start},
		{MedicationID: "a", Outcome: intakelogs.OutcomeTaken, OccurredAt: w.End},
		{MedicationID: "a", Outcome: intakelogs.OutcomeMissed, OccurredAt: date(2024, 1, 3)},
		{MedicationID: "a", Outcome: intakelogs.OutcomeTaken, OccurredAt: w.End.Add(time.Second)},
		{MedicationID: "b", Outcome: intakelogs.OutcomeSkipped, OccurredAt: date(2024, 1, 3)},
		{MedicationID: "archived", Outcome: intakelogs.OutcomeTaken, OccurredAt: date(2024, 1, 3)},
	}

	got := GroupTaken(logs, w)
	assert.Equal(t, map[string]int{"a": 2, "archived": 1}, got)
	assert.Equal(t, 0, got["b"])

	outcomes := GroupOutcomes(logs, w)
	assert.Equal(t, OutcomeCounts{Taken: 2, Missed: 1}, outcomes["a"])
	assert.Equal(t, OutcomeCounts{Skipped: 1}, outcomes["b"])
}
