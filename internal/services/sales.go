package services

import (
	"context"

	"github.com/diewo77/salescrm/internal/models"
	"github.com/diewo77/salescrm/internal/records"
	"github.com/shopspring/decimal"
)

// Summary is the sales progress of the project.
type Summary struct {
	Units          int             `json:"units"`
	Sold           int             `json:"sold"`
	Available      int             `json:"available"`
	SoldValue      decimal.Decimal `json:"sold_value"`
	AvailableValue decimal.Decimal `json:"available_value"`
	TotalValue     decimal.Decimal `json:"total_value"`
	// Progress is the sold share of units in percent, two decimals.
	Progress decimal.Decimal `json:"progress"`
}

type SalesService struct {
	src records.Source
}

func NewSalesService(src records.Source) *SalesService {
	return &SalesService{src: src}
}

// Summary fetches every apartment and totals it.
func (s *SalesService) Summary(ctx context.Context) (*Summary, error) {
	apts, err := s.src.Apartments(ctx)
	if err != nil {
		return nil, err
	}
	sum := ComputeSummary(apts)
	return &sum, nil
}

// ComputeSummary totals valor_total by sold flag. Units without a value count
// but add nothing; unknown sold state counts as available.
func ComputeSummary(apts []*models.Apartment) Summary {
	sum := Summary{Units: len(apts)}
	for _, a := range apts {
		value := decimal.Zero
		if a.ValorTotal != nil {
			value = decimal.NewFromFloat(*a.ValorTotal)
		}
		if a.Sold() {
			sum.Sold++
			sum.SoldValue = sum.SoldValue.Add(value)
		} else {
			sum.Available++
			sum.AvailableValue = sum.AvailableValue.Add(value)
		}
	}
	sum.TotalValue = sum.SoldValue.Add(sum.AvailableValue)
	if sum.Units > 0 {
		sum.Progress = decimal.NewFromInt(int64(sum.Sold)).
			Mul(decimal.NewFromInt(100)).
			DivRound(decimal.NewFromInt(int64(sum.Units)), 2)
	}
	return sum
}
