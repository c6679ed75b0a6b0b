package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/diewo77/salescrm/internal/catalog"
	"github.com/diewo77/salescrm/internal/models"
	"github.com/diewo77/salescrm/internal/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newApartmentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apartments",
		Short: "Manage the apartment inventory",
	}
	cmd.AddCommand(newApartmentsImportCmd(app))
	return cmd
}

func newApartmentsImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Insert or update apartments from a spreadsheet, keyed by apartment code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			recs, err := table.ReadXLSX(f, catalog.For(catalog.Apartments))
			if err != nil {
				return err
			}
			gdb, err := app.DB()
			if err != nil {
				return err
			}
			res, err := ImportApartments(gdb, recs)
			if err != nil {
				return err
			}
			app.Logger.WithFields(logrus.Fields{"file": args[0], "created": res.Created, "updated": res.Updated}).Info("apartments imported")
			return writeOut(cmd, res)
		},
	}
}

// ImportResult counts what an import changed.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// ImportApartments upserts recs on the apartamento code in one transaction.
// Columns absent from a record keep their stored value.
func ImportApartments(gdb *gorm.DB, recs []map[string]any) (ImportResult, error) {
	var res ImportResult
	err := gdb.Transaction(func(tx *gorm.DB) error {
		for i, rec := range recs {
			code, _ := rec["apartamento"].(string)
			if code == "" {
				return fmt.Errorf("row %d: missing apartamento", i+2)
			}
			var apt models.Apartment
			err := tx.Where("apartamento = ?", code).First(&apt).Error
			isNew := errors.Is(err, gorm.ErrRecordNotFound)
			if err != nil && !isNew {
				return err
			}
			for key, v := range rec {
				if err := apt.SetField(key, v); err != nil {
					return fmt.Errorf("row %d: %w", i+2, err)
				}
			}
			if err := tx.Save(&apt).Error; err != nil {
				return fmt.Errorf("row %d: %w", i+2, err)
			}
			if isNew {
				res.Created++
			} else {
				res.Updated++
			}
		}
		return nil
	})
	return res, err
}
