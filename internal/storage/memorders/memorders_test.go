package memorders

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/BearBump/ParcelAssist/internal/models"
	"github.com/stretchr/testify/require"
)

func TestStore_FindByID(t *testing.T) {
	s, err := New(SampleOrders())
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	o, ok, err := s.FindByID(context.Background(), " ab-123456 ")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "USPS", o.Carrier)
	require.Equal(t, models.OrderStatusInTransit, o.Status)

	_, ok, err = s.FindByID(context.Background(), "AB-999999")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStore_ReturnsCopies(t *testing.T) {
	s, err := New(SampleOrders())
	require.NoError(t, err)

	o, _, _ := s.FindByID(context.Background(), "AB-112233")
	o.Status = "Lost"

	again, _, _ := s.FindByID(context.Background(), "AB-112233")
	require.Equal(t, models.OrderStatusDelivered, again.Status)
}

func TestNew_RejectsBadSeeds(t *testing.T) {
	_, err := New([]models.Order{{ID: "123"}})
	require.Error(t, err)

	_, err = New([]models.Order{{ID: "AB-000001"}, {ID: "ab-000001"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate")
}

func TestLoadSeedFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "orders.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
orders:
  - id: "ab-777777"
    email: "sam@example.com"
    zip: "10001-0001"
    status: "In Transit"
    carrier: "DHL"
    last_scan: "2025-09-08 10:00 ET - Arrived at New York, NY facility"
    eta: "2025-09-11"
`), 0o600))

	orders, err := LoadSeedFile(p)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Empty(t, orders[0].Notes)

	s, err := New(orders)
	require.NoError(t, err)
	o, ok, err := s.FindByID(context.Background(), "AB-777777")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "AB-777777", o.ID)
	require.Equal(t, "10001-0001", o.Zip)
}

func TestLoadSeedFile_Missing(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
}
