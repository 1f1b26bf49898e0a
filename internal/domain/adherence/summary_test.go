package adherence

import (
	"fmt"
	"testing"
	"time"

	"medication-adherence/internal/domain/intakelogs"
	"medication-adherence/internal/domain/medications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func takenLogs(medID string, n int, start time.Time) []intakelogs.IntakeLog {
	out := make([]intakelogs.IntakeLog, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, intakelogs.IntakeLog{
			ID:           fmt.Sprintf("%s-%d", medID, i),
			MedicationID: medID,
			Outcome:      intakelogs.OutcomeTaken,
			OccurredAt:   start.Add(time.Duration(i) * 6 * time.Hour),
		})
	}
	return out
}

func TestBuildSummary_PrescriptionTwoSlotsWeek(t *testing.T) {
	meds := []medications.Medication{{
		ID:             "rx-1",
		Name:           "Metformin",
		Dosage:         "500mg",
		Classification: medications.ClassificationPrescription,
		ScheduleSlots:  []string{"Morning", "Bedtime"},
	}}

	s, err := BuildSummary(meds, takenLogs("rx-1", 10, date(2024, 1, 1)), week())
	require.NoError(t, err)

	assert.Equal(t, 7, s.Period.Days)
	assert.Equal(t, 1, s.TotalMedications)
	assert.Equal(t, 14, s.ExpectedDoses)
	assert.Equal(t, 10, s.TakenDoses)
	assert.Equal(t, 4, s.MissedDoses)
	assert.Equal(t, 71, s.AdherenceRate)

	require.Len(t, s.Prescriptions, 1)
	st := s.Prescriptions[0]
	assert.Equal(t, 2, st.SlotsPerDay)
	assert.Equal(t, 7, st.ActiveDays)
	require.NotNil(t, st.Expected)
	assert.Equal(t, 14, *st.Expected)
	require.NotNil(t, st.AdherenceRate)
	assert.Equal(t, 71, *st.AdherenceRate)
	assert.Equal(t, 4, st.Missed)
}

func TestBuildSummary_MixedClassifications(t *testing.T) {
	meds := []medications.Medication{
		{ID: "rx", Name: "Lisinopril", Classification: medications.ClassificationPrescription, ScheduleSlots: []string{"Morning"}},
		{ID: "once", Name: "Flu vaccine", Classification: medications.ClassificationOneTime},
		{ID: "prn", Name: "Ibuprofen", Classification: medications.ClassificationAsNeeded},
	}
	logs := append(takenLogs("rx", 5, date(2024, 1, 1)), takenLogs("prn", 3, date(2024, 1, 2))...)
	logs = append(logs, intakelogs.IntakeLog{MedicationID: "prn", Outcome: intakelogs.OutcomeMissed, OccurredAt: date(2024, 1, 4)})

	s, err := BuildSummary(meds, logs, week())
	require.NoError(t, err)

	assert.Equal(t, 3, s.TotalMedications)
	// solo prescription entra en los totales
	assert.Equal(t, 7, s.ExpectedDoses)
	assert.Equal(t, 5, s.TakenDoses)
	assert.Equal(t, 2, s.MissedDoses)
	assert.Equal(t, 71, s.AdherenceRate)

	require.Len(t, s.OneTime, 1)
	require.NotNil(t, s.OneTime[0].Expected)
	assert.Equal(t, 1, *s.OneTime[0].Expected)
	assert.Equal(t, 1, s.OneTime[0].Missed)
	assert.Nil(t, s.OneTime[0].AdherenceRate)

	require.Len(t, s.AsNeeded, 1)
	assert.Nil(t, s.AsNeeded[0].Expected)
	assert.Nil(t, s.AsNeeded[0].AdherenceRate)
	assert.Equal(t, 3, s.AsNeeded[0].Taken)
	assert.Equal(t, 1, s.AsNeeded[0].Missed)
}

func TestBuildSummary_OneTimeTakenExcludedFromTotals(t *testing.T) {
	once := medications.Medication{ID: "once", Name: "Flu vaccine", Classification: medications.ClassificationOneTime}
	logs := []intakelogs.IntakeLog{{ID: "l1", MedicationID: "once", Outcome: intakelogs.OutcomeTaken, OccurredAt: date(2024, 1, 3)}}

	s, err := BuildSummary([]medications.Medication{once}, logs, week())
	require.NoError(t, err)

	require.Len(t, s.OneTime, 1)
	st := s.OneTime[0]
	require.NotNil(t, st.Expected)
	assert.Equal(t, 1, *st.Expected)
	assert.Equal(t, 1, st.Taken)
	assert.Equal(t, 0, st.Missed)
	assert.Nil(t, st.AdherenceRate)

	assert.Equal(t, 1, s.TotalMedications)
	assert.Equal(t, 0, s.ExpectedDoses)
	assert.Equal(t, 0, s.TakenDoses)
	assert.Equal(t, 0, s.MissedDoses)
	assert.Equal(t, 0, s.AdherenceRate)

	// junto a una prescription, la toma única tampoco suma
	rx := medications.Medication{ID: "rx", Classification: medications.ClassificationPrescription, ScheduleSlots: []string{"Morning"}}
	s, err = BuildSummary([]medications.Medication{rx, once}, append(logs, takenLogs("rx", 5, date(2024, 1, 1))...), week())
	require.NoError(t, err)

	assert.Equal(t, 7, s.ExpectedDoses)
	assert.Equal(t, 5, s.TakenDoses)
	assert.Equal(t, 2, s.MissedDoses)
	assert.Equal(t, 71, s.AdherenceRate)
}

func TestBuildSummary_PrescriptionStartsMidWindow(t *testing.T) {
	meds := []medications.Medication{{
		ID:             "rx",
		Name:           "Amoxicillin",
		Classification: medications.ClassificationPrescription,
		ScheduleSlots:  []string{"Morning"},
		ActiveFrom:     ptr(date(2024, 1, 5)),
	}}

	s, err := BuildSummary(meds, takenLogs("rx", 2, date(2024, 1, 5)), week())
	require.NoError(t, err)

	assert.Equal(t, 7, s.Period.Days)
	assert.Equal(t, 3, s.ExpectedDoses)
	assert.Equal(t, 2, s.TakenDoses)
	assert.Equal(t, 1, s.MissedDoses)
	assert.Equal(t, 67, s.AdherenceRate)

	require.Len(t, s.Prescriptions, 1)
	assert.Equal(t, 3, s.Prescriptions[0].ActiveDays)
	require.NotNil(t, s.Prescriptions[0].AdherenceRate)
	assert.Equal(t, 67, *s.Prescriptions[0].AdherenceRate)
}

func TestBuildSummary_ShortWindowRounding(t *testing.T) {
	meds := []medications.Medication{{ID: "rx", Name: "Atorvastatin", Classification: medications.ClassificationPrescription, ScheduleSlots: []string{"Bedtime"}}}

	s, err := BuildSummary(meds, takenLogs("rx", 2, date(2024, 1, 1)), DayWindow(date(2024, 1, 1), date(2024, 1, 3)))
	require.NoError(t, err)

	assert.Equal(t, 3, s.ExpectedDoses)
	assert.Equal(t, 2, s.TakenDoses)
	assert.Equal(t, 67, s.AdherenceRate)
}

func TestBuildSummary_NoMedications(t *testing.T) {
	s, err := BuildSummary(nil, nil, week())
	require.NoError(t, err)

	assert.Equal(t, 0, s.TotalMedications)
	assert.Equal(t, 0, s.ExpectedDoses)
	assert.Equal(t, 0, s.TakenDoses)
	assert.Equal(t, 0, s.MissedDoses)
	assert.Equal(t, 0, s.AdherenceRate)
	assert.NotNil(t, s.Prescriptions)
	assert.Empty(t, s.Prescriptions)
	assert.NotNil(t, s.OneTime)
	assert.NotNil(t, s.AsNeeded)
}

func TestBuildSummary_OverAdherenceIsNotClamped(t *testing.T) {
	meds := []medications.Medication{{ID: "rx", Classification: medications.ClassificationPrescription}}

	s, err := BuildSummary(meds, takenLogs("rx", 9, date(2024, 1, 1)), week())
	require.NoError(t, err)

	assert.Equal(t, 129, s.AdherenceRate)
	assert.Equal(t, 0, s.MissedDoses)
	assert.Equal(t, 0, s.Prescriptions[0].Missed)
}

func TestBuildSummary_IgnoresLogsOutsideWindowAndUnknownMeds(t *testing.T) {
	meds := []medications.Medication{{ID: "rx", Classification: medications.ClassificationPrescription}}
	logs := []intakelogs.IntakeLog{
		{MedicationID: "rx", Outcome: intakelogs.OutcomeTaken, OccurredAt: date(2023, 12, 31)},
		{MedicationID: "rx", Outcome: intakelogs.OutcomeTaken, OccurredAt: date(2024, 1, 8)},
		{MedicationID: "rx", Outcome: intakelogs.OutcomeSkipped, OccurredAt: date(2024, 1, 2)},
		{MedicationID: "ghost", Outcome: intakelogs.OutcomeTaken, OccurredAt: date(2024, 1, 2)},
	}

	s, err := BuildSummary(meds, logs, week())
	require.NoError(t, err)

	assert.Equal(t, 0, s.TakenDoses)
	assert.Equal(t, 1, s.Prescriptions[0].Skipped)
}

func TestBuildSummary_IsDeterministic(t *testing.T) {
	meds := []medications.Medication{
		{ID: "rx", Classification: medications.ClassificationPrescription, ScheduleSlots: []string{"a", "b", "c"}},
		{ID: "prn", Classification: medications.ClassificationAsNeeded},
	}
	logs := append(takenLogs("rx", 11, date(2024, 1, 1)), takenLogs("prn", 2, date(2024, 1, 5))...)

	first, err := BuildSummary(meds, logs, week())
	require.NoError(t, err)
	second, err := BuildSummary(meds, logs, week())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildSummary_ValidationErrors(t *testing.T) {
	_, err := BuildSummary(nil, nil, Window{Start: date(2024, 2, 1), End: date(2024, 1, 1)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = BuildSummary([]medications.Medication{{Classification: medications.ClassificationPrescription}}, nil, week())
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "medications[0].id", verr.Field)

	_, err = BuildSummary([]medications.Medication{{ID: "x", Classification: "weekly"}}, nil, week())
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "medications[0].classification", verr.Field)
}

func TestBuildSummary_RejectsMalformedLogs(t *testing.T) {
	meds := []medications.Medication{{ID: "rx", Classification: medications.ClassificationPrescription}}
	var verr *ValidationError

	// fuera de la ventana también cuenta: es un registro mal formado
	logs := append(takenLogs("rx", 2, date(2024, 1, 1)), intakelogs.IntakeLog{ID: "bad", Outcome: intakelogs.OutcomeTaken, OccurredAt: date(2023, 6, 1)})
	_, err := BuildSummary(meds, logs, week())
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "logs[2].medication_id", verr.Field)

	logs = []intakelogs.IntakeLog{{ID: "odd", MedicationID: "rx", Outcome: "forgot", OccurredAt: date(2024, 1, 2)}}
	_, err = BuildSummary(meds, logs, week())
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "logs[0].outcome", verr.Field)
}

func TestSelectEligible(t *testing.T) {
	now := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)
	meds := []medications.Medication{
		{ID: "active"},
		{ID: "archived", IsArchived: true},
		{ID: "expired", ActiveUntil: ptr(date(2024, 1, 9))},
		{ID: "ends-today", ActiveUntil: ptr(date(2024, 1, 10))},
		{ID: "archived-expired", IsArchived: true, ActiveUntil: ptr(date(2023, 1, 1))},
	}

	ids := func(ms []medications.Medication) []string {
		out := make([]string, 0, len(ms))
		for _, m := range ms {
			out = append(out, m.ID)
		}
		return out
	}

	assert.Equal(t, []string{"active", "ends-today"}, ids(SelectEligible(meds, now, false)))
	assert.Equal(t, []string{"active", "expired", "ends-today"}, ids(SelectEligible(meds, now, true)))
}
