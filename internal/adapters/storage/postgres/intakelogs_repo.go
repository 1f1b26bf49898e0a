package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"medication-adherence/internal/domain/intakelogs"
)

type IntakeLogsRepo struct {
	db *sql.DB
}

func NewIntakeLogsRepo(db *sql.DB) *IntakeLogsRepo {
	return &IntakeLogsRepo{db: db}
}

func (r *IntakeLogsRepo) Create(ctx context.Context, l intakelogs.IntakeLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO intake_logs (
			id, owner_user_id,
			medication_id, scheduled_slot,
			occurred_at, recorded_at,
			outcome
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		l.ID,
		l.OwnerUserID,
		l.MedicationID,
		l.ScheduledSlot,
		l.OccurredAt,
		l.RecordedAt,
		string(l.Outcome),
	)
	return err
}

func (r *IntakeLogsRepo) ListByOwner(ctx context.Context, ownerUserID string, filter intakelogs.ListFilter) ([]intakelogs.IntakeLog, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT
			id, owner_user_id,
			medication_id, scheduled_slot,
			occurred_at, recorded_at,
			outcome
		FROM intake_logs
		WHERE owner_user_id = $1
	`)

	args := []any{ownerUserID}
	argN := 2

	if len(filter.MedicationIDs) > 0 {
		ph, a := placeholders(filter.MedicationIDs, argN)
		sb.WriteString(" AND medication_id IN (" + ph + ")")
		args = append(args, a...)
		argN += len(a)
	}
	if len(filter.Outcomes) > 0 {
		ph, a := placeholders(filter.Outcomes, argN)
		sb.WriteString(" AND outcome IN (" + ph + ")")
		args = append(args, a...)
		argN += len(a)
	}

	// from/to inclusivos
	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at <= $%d", argN))
		args = append(args, *filter.To)
		argN++
	}

	sb.WriteString(" ORDER BY occurred_at DESC, id ASC")
	if filter.Limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]intakelogs.IntakeLog, 0)
	for rows.Next() {
		var l intakelogs.IntakeLog
		var outcome string

		if err := rows.Scan(
			&l.ID,
			&l.OwnerUserID,
			&l.MedicationID,
			&l.ScheduledSlot,
			&l.OccurredAt,
			&l.RecordedAt,
			&outcome,
		); err != nil {
			return nil, err
		}

		l.OccurredAt = l.OccurredAt.UTC()
		l.RecordedAt = l.RecordedAt.UTC()
		l.Outcome = intakelogs.Outcome(outcome)
		out = append(out, l)
	}

	return out, rows.Err()
}
