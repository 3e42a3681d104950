package memorders

import (
	"context"
	"fmt"
	"os"

	"github.com/BearBump/ParcelAssist/internal/models"
	"github.com/BearBump/ParcelAssist/internal/validate"
	"github.com/pkg/errors"
	"go.yaml.in/yaml/v4"
)

// Store is a read-only order set. It is never mutated after New, so it needs no locking.
type Store struct {
	orders map[string]models.Order
}

func New(orders []models.Order) (*Store, error) {
	m := make(map[string]models.Order, len(orders))
	for _, o := range orders {
		id := validate.NormalizeOrderID(o.ID)
		if !validate.OrderID(id) {
			return nil, fmt.Errorf("seed order %q: malformed order id", o.ID)
		}
		if _, dup := m[id]; dup {
			return nil, fmt.Errorf("seed order %q: duplicate order id", id)
		}
		o.ID = id
		m[id] = o
	}
	return &Store{orders: m}, nil
}

func (s *Store) FindByID(_ context.Context, orderID string) (*models.Order, bool, error) {
	o, ok := s.orders[validate.NormalizeOrderID(orderID)]
	if !ok {
		return nil, false, nil
	}
	// копия: вызывающий не должен иметь доступа к внутренней карте
	return &o, true, nil
}

func (s *Store) Len() int {
	return len(s.orders)
}

type seedFile struct {
	Orders []models.Order `yaml:"orders"`
}

// LoadSeedFile reads an `orders:` list from a YAML file.
func LoadSeedFile(path string) ([]models.Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read seed file")
	}
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "unmarshal seed file")
	}
	return f.Orders, nil
}
