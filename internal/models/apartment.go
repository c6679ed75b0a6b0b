package models

import (
	"time"

	"github.com/diewo77/salescrm/internal/catalog"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Apartment is one unit of the project inventory. Units are loaded by seed or
// import and only change through single-field edits.
type Apartment struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Apartamento string    `gorm:"size:50;uniqueIndex;not null" json:"apartamento"`

	AreaConstruida           *float64 `json:"area_construida"`
	ValorMt2                 *float64 `gorm:"column:valor_mt2" json:"valor_mt2"`
	AreaTerraza              *float64 `json:"area_terraza"`
	ValorMt2Terraza          *float64 `gorm:"column:valor_mt2_terraza" json:"valor_mt2_terraza"`
	ValorTerraza             *float64 `json:"valor_terraza"`
	ValorAC                  *float64 `gorm:"column:valor_ac" json:"valor_ac"`
	ValorTotal               *float64 `json:"valor_total"`
	CuotaInicialPct          *float64 `json:"cuota_inicial_pct"`
	CuotaInicialValor        *float64 `json:"cuota_inicial_valor"`
	Separacion5              *float64 `gorm:"column:separacion_5" json:"separacion_5"`
	SaldoInicial             *float64 `json:"saldo_inicial"`
	CuotaMensualMes1         *float64 `gorm:"column:cuota_mensual_mes1" json:"cuota_mensual_mes1"`
	SaldoContraEscrituracion *float64 `json:"saldo_contra_escrituracion"`

	Vendido *bool `json:"vendido"`
}

// TableName keeps the backend's table name.
func (Apartment) TableName() string { return "apartamentos" }

// BeforeCreate assigns a UUID when the caller did not.
func (a *Apartment) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (a *Apartment) RowID() string { return a.ID }

// Value reads a column by its catalog key.
func (a *Apartment) Value(key string) catalog.Value { return fieldValue(a, key) }

// SetField writes a column by its catalog key.
func (a *Apartment) SetField(key string, v any) error { return setField(a, key, v) }

// Sold reports whether the unit is marked sold. Unknown counts as available.
func (a *Apartment) Sold() bool { return a.Vendido != nil && *a.Vendido }
