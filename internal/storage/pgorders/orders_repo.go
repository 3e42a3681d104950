package pgorders

import (
	"context"
	"time"

	"github.com/BearBump/ParcelAssist/internal/models"
	"github.com/BearBump/ParcelAssist/internal/validate"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

func (s *Storage) FindByID(ctx context.Context, orderID string) (*models.Order, bool, error) {
	var o models.Order
	err := s.db.QueryRow(ctx, `
SELECT id, email, zip, status, carrier, last_scan, eta, notes
FROM orders
WHERE id = $1
`, validate.NormalizeOrderID(orderID)).Scan(
		&o.ID, &o.Email, &o.Zip, &o.Status, &o.Carrier, &o.LastScan, &o.ETA, &o.Notes,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "select order")
	}
	return &o, true, nil
}

// UpsertOrders загружает seed-набор; существующие заказы перезаписываются.
func (s *Storage) UpsertOrders(ctx context.Context, orders []models.Order) error {
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, o := range orders {
		_, err := tx.Exec(ctx, `
INSERT INTO orders (id, email, zip, status, carrier, last_scan, eta, notes, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  zip = EXCLUDED.zip,
  status = EXCLUDED.status,
  carrier = EXCLUDED.carrier,
  last_scan = EXCLUDED.last_scan,
  eta = EXCLUDED.eta,
  notes = EXCLUDED.notes,
  updated_at = EXCLUDED.updated_at
`, validate.NormalizeOrderID(o.ID), o.Email, o.Zip, o.Status, o.Carrier, o.LastScan, o.ETA, o.Notes, now)
		if err != nil {
			return errors.Wrap(err, "upsert order")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	return nil
}
