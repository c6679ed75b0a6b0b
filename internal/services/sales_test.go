package services

import (
	"context"
	"errors"
	"testing"

	"github.com/diewo77/salescrm/internal/models"
	"github.com/diewo77/salescrm/internal/records"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apt(value float64, sold *bool) *models.Apartment {
	return &models.Apartment{ValorTotal: &value, Vendido: sold}
}

type aptSource struct {
	records.Source
	list []*models.Apartment
	err  error
}

func (s aptSource) Apartments(context.Context) ([]*models.Apartment, error) { return s.list, s.err }

func TestComputeSummary(t *testing.T) {
	yes, no := true, false
	sum := ComputeSummary([]*models.Apartment{
		apt(350000000.10, &yes),
		apt(420000000.20, &no),
		apt(100000000, nil),
		{Vendido: &yes},
	})
	assert.Equal(t, 4, sum.Units)
	assert.Equal(t, 2, sum.Sold)
	assert.Equal(t, 2, sum.Available)
	assert.True(t, decimal.RequireFromString("350000000.1").Equal(sum.SoldValue))
	assert.True(t, decimal.RequireFromString("520000000.2").Equal(sum.AvailableValue))
	assert.True(t, decimal.RequireFromString("870000000.3").Equal(sum.TotalValue))
	assert.Equal(t, "50", sum.Progress.String())
}

func TestComputeSummary_Empty(t *testing.T) {
	sum := ComputeSummary(nil)
	assert.Zero(t, sum.Units)
	assert.True(t, sum.Progress.IsZero())
}

func TestComputeSummary_ProgressRounding(t *testing.T) {
	yes := true
	sum := ComputeSummary([]*models.Apartment{apt(1, &yes), apt(1, nil), apt(1, nil)})
	assert.Equal(t, "33.33", sum.Progress.String())
}

func TestSalesService_Summary(t *testing.T) {
	yes := true
	sum, err := NewSalesService(aptSource{list: []*models.Apartment{apt(10, &yes)}}).Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Sold)

	_, err = NewSalesService(aptSource{err: errors.New("down")}).Summary(context.Background())
	assert.Error(t, err)
}
