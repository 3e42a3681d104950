package pgorders

import (
	"context"

	"github.com/pkg/errors"
)

func (s *Storage) initSchema(ctx context.Context) error {
	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  zip TEXT NOT NULL,
  status TEXT NOT NULL,
  carrier TEXT NOT NULL,
  last_scan TEXT NOT NULL,
  eta TEXT NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL
)`,
		`
CREATE TABLE IF NOT EXISTS support_cases (
  id BIGSERIAL PRIMARY KEY,
  kind TEXT NOT NULL,
  session_id TEXT NOT NULL,
  order_id TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  zip TEXT NOT NULL DEFAULT '',
  reason TEXT NOT NULL DEFAULT '',
  case_ref TEXT NULL,
  occurred_at TIMESTAMPTZ NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
)`,
		// Повторная доставка одного и того же события из Kafka не должна плодить кейсы.
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_support_cases_session_kind ON support_cases(session_id, kind)`,
		`CREATE INDEX IF NOT EXISTS idx_support_cases_occurred_at ON support_cases(occurred_at DESC)`,
	}

	for _, q := range stmts {
		if _, err := s.db.Exec(ctx, q); err != nil {
			return errors.Wrap(err, "init schema")
		}
	}
	return nil
}
