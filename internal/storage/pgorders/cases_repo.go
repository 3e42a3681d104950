package pgorders

import (
	"context"
	"time"

	"github.com/BearBump/ParcelAssist/internal/models"
	"github.com/pkg/errors"
)

// CreateCase вставляет кейс; created=false, если кейс этого вида для сессии уже есть.
func (s *Storage) CreateCase(ctx context.Context, c models.SupportCase) (bool, error) {
	tag, err := s.db.Exec(ctx, `
INSERT INTO support_cases (
  kind, session_id, order_id, email, zip, reason, case_ref, occurred_at, created_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8, now())
ON CONFLICT (session_id, kind) DO NOTHING
`, c.Kind, c.SessionID, c.OrderID, c.Email, c.Zip, c.Reason, c.CaseRef, c.OccurredAt.UTC())
	if err != nil {
		return false, errors.Wrap(err, "insert support case")
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Storage) ListCases(ctx context.Context, limit, offset int) ([]*models.SupportCase, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.Query(ctx, `
SELECT
  id, kind, session_id, order_id, email, zip, reason, case_ref, occurred_at, created_at
FROM support_cases
ORDER BY occurred_at DESC, id DESC
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "select support cases")
	}
	defer rows.Close()

	out := make([]*models.SupportCase, 0, limit)
	for rows.Next() {
		var c models.SupportCase
		var caseRef *string
		var occurredAt, createdAt time.Time
		if err := rows.Scan(
			&c.ID, &c.Kind, &c.SessionID, &c.OrderID, &c.Email, &c.Zip, &c.Reason,
			&caseRef, &occurredAt, &createdAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan support case")
		}
		c.CaseRef = caseRef
		c.OccurredAt = occurredAt
		c.CreatedAt = createdAt
		out = append(out, &c)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}
