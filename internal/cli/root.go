// Package cli implements crmctl, the administration command line.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/diewo77/salescrm/internal/config"
	"github.com/diewo77/salescrm/internal/db"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// App carries what subcommands share. The database is opened on first use.
type App struct {
	Config *config.Config
	Logger *logrus.Logger
	db     *gorm.DB
}

func (a *App) DB() (*gorm.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	gdb, err := db.Open(a.Config.Database, a.Logger)
	if err != nil {
		return nil, err
	}
	a.db = gdb
	return gdb, nil
}

func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "crmctl",
		Short:         "Administer the sales CRM database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newMigrateCmd(app))
	cmd.AddCommand(newUserCmd(app))
	cmd.AddCommand(newApartmentsCmd(app))
	return cmd
}

func writeOut(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func newMigrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema and seed the system profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := app.DB()
			if err != nil {
				return err
			}
			if err := db.Migrate(gdb, app.Config); err != nil {
				return err
			}
			return writeOut(cmd, map[string]any{"migrated": true})
		},
	}
}
