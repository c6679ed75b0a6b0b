package db

import (
	"errors"
	"fmt"

	"github.com/diewo77/salescrm/gate"
	"github.com/diewo77/salescrm/internal/models"
	"gorm.io/gorm"
)

type permissionSeed struct {
	resource    string
	action      gate.Action
	description string
}

var permissionSeeds = []permissionSeed{
	{"*", "*", "Full system access"},
	{gate.ResourceApartment, "*", "All apartment actions"},
	{gate.ResourceApartment, gate.ActionList, "List apartments"},
	{gate.ResourceApartment, gate.ActionUpdate, "Edit apartment fields"},
	{gate.ResourceApartment, gate.ActionExport, "Export apartments"},
	{gate.ResourceClient, "*", "All client actions"},
	{gate.ResourceClient, gate.ActionList, "List clients"},
	{gate.ResourceClient, gate.ActionView, "View client details and dossier"},
	{gate.ResourceClient, gate.ActionCreate, "Register clients"},
	{gate.ResourceClient, gate.ActionUpdate, "Edit client fields"},
	{gate.ResourceClient, gate.ActionExport, "Export clients"},
	{gate.ResourceOCR, gate.ActionExtract, "Read ID documents"},
	{gate.ResourceProfile, "*", "Manage profiles"},
	{gate.ResourceUser, "*", "Manage users"},
}

type profileSeed struct {
	name        string
	description string
	codes       []string
}

var profileSeeds = []profileSeed{
	{"admin", "Full system administrator", []string{"*:*"}},
	{"sales", "Sales staff: browse, edit and register clients", []string{
		"apartment:*",
		"client:*",
		"ocr:extract",
	}},
	{"viewer", "Read-only access to inventory and clients", []string{
		"apartment:list",
		"client:list",
		"client:view",
	}},
}

// SeedPermissions creates the permission rows. It is idempotent.
func SeedPermissions(gdb *gorm.DB) error {
	for _, s := range permissionSeeds {
		perm := models.Permission{ResourceType: s.resource, Action: string(s.action), Description: s.description}
		err := gdb.Where("resource_type = ? AND action = ?", s.resource, string(s.action)).FirstOrCreate(&perm).Error
		if err != nil {
			return fmt.Errorf("permission %s:%s: %w", s.resource, s.action, err)
		}
	}
	return nil
}

// SeedProfiles creates the system profiles and resets their permissions.
func SeedProfiles(gdb *gorm.DB) error {
	if err := SeedPermissions(gdb); err != nil {
		return err
	}
	for _, s := range profileSeeds {
		var profile models.Profile
		err := gdb.Where("name = ?", s.name).First(&profile).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			profile = models.Profile{Name: s.name, Description: s.description, IsSystem: true}
			if err := gdb.Create(&profile).Error; err != nil {
				return fmt.Errorf("profile %s: %w", s.name, err)
			}
		case err != nil:
			return fmt.Errorf("profile %s: %w", s.name, err)
		}

		perms := make([]models.Permission, 0, len(s.codes))
		for _, code := range s.codes {
			p, ok := gate.ParsePermission(code)
			if !ok {
				return fmt.Errorf("profile %s: bad permission %q", s.name, code)
			}
			res, act := p.Parse()
			var perm models.Permission
			if err := gdb.Where("resource_type = ? AND action = ?", res, string(act)).First(&perm).Error; err != nil {
				return fmt.Errorf("profile %s: permission %s: %w", s.name, code, err)
			}
			perms = append(perms, perm)
		}
		if err := gdb.Model(&profile).Association("Permissions").Replace(perms); err != nil {
			return fmt.Errorf("profile %s permissions: %w", s.name, err)
		}
	}
	return nil
}

// SeedApartments loads a small demo inventory of twelve units when the
// apartment table is empty.
func SeedApartments(gdb *gorm.DB) error {
	var count int64
	if err := gdb.Model(&models.Apartment{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for floor := 1; floor <= 4; floor++ {
		for unit := 1; unit <= 3; unit++ {
			area := 60.0 + float64(unit)*12.5
			perM2 := 4500000.0 + float64(floor)*150000
			terrace := 8.0 + float64(unit)*2
			valAC := area * perM2
			valTerrace := terrace * perM2 * 0.5
			total := valAC + valTerrace
			initialPct := 30.0
			initial := total * initialPct / 100
			separation := total * 0.05
			sold := (floor+unit)%3 == 0
			apt := models.Apartment{
				Apartamento:              fmt.Sprintf("%d%02d", floor, unit),
				AreaConstruida:           &area,
				ValorMt2:                 &perM2,
				AreaTerraza:              &terrace,
				ValorMt2Terraza:          ptr(perM2 * 0.5),
				ValorTerraza:             &valTerrace,
				ValorAC:                  &valAC,
				ValorTotal:               &total,
				CuotaInicialPct:          &initialPct,
				CuotaInicialValor:        &initial,
				Separacion5:              &separation,
				SaldoInicial:             ptr(initial - separation),
				CuotaMensualMes1:         ptr((initial - separation) / 24),
				SaldoContraEscrituracion: ptr(total - initial),
				Vendido:                  &sold,
			}
			if err := gdb.Create(&apt).Error; err != nil {
				return fmt.Errorf("apartment %s: %w", apt.Apartamento, err)
			}
		}
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
