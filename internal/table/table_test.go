package table

import (
	"context"
	"fmt"
	"sync"

	"github.com/diewo77/salescrm/internal/catalog"
	"github.com/diewo77/salescrm/internal/models"
	"github.com/diewo77/salescrm/internal/records"
)

func ptr[T any](v T) *T { return &v }

// apartments builds n units coded A-01..A-nn with valor_total = i * 1000.
func apartments(n int) []*models.Apartment {
	out := make([]*models.Apartment, n)
	for i := range n {
		out[i] = &models.Apartment{
			ID:          fmt.Sprintf("id-%02d", i+1),
			Apartamento: fmt.Sprintf("A-%02d", i+1),
			ValorTotal:  ptr(float64((i + 1) * 1000)),
			Vendido:     ptr(i%2 == 0),
		}
	}
	return out
}

// memSource is an in-memory records.Source.
type memSource struct {
	mu      sync.Mutex
	apts    []*models.Apartment
	clients []*models.Client
	fetches int
	update  func(ctx context.Context, id, field string, value any) error
}

func (m *memSource) Apartments(context.Context) ([]*models.Apartment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++
	out := make([]*models.Apartment, len(m.apts))
	for i, a := range m.apts {
		cp := *a
		out[i] = &cp
	}
	return out, nil
}

func (m *memSource) Clients(context.Context) ([]*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++
	return append([]*models.Client(nil), m.clients...), nil
}

func (m *memSource) Client(_ context.Context, id string) (*models.Client, error) {
	for _, c := range m.clients {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, records.ErrNotFound
}

func (m *memSource) UpdateField(ctx context.Context, entity catalog.Entity, id, field string, value any) error {
	if m.update != nil {
		if err := m.update(ctx, id, field, value); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apts {
		if a.ID == id {
			return a.SetField(field, value)
		}
	}
	return records.ErrNotFound
}

func (m *memSource) InsertClient(_ context.Context, c *models.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients = append(m.clients, c)
	return nil
}
