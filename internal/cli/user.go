package cli

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/diewo77/salescrm/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLength applies to passwords set from the CLI.
const MinPasswordLength = 8

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage staff accounts",
	}
	cmd.AddCommand(newUserCreateCmd(app))
	return cmd
}

func newUserCreateCmd(app *App) *cobra.Command {
	var email, password, name, profile string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user, or reset the password and profile of an existing one",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := app.DB()
			if err != nil {
				return err
			}
			u, created, err := upsertUser(gdb, email, password, name, profile)
			if err != nil {
				return err
			}
			app.Logger.WithFields(logrus.Fields{"email": u.Email, "profile": profile, "created": created}).Info("user saved")
			return writeOut(cmd, map[string]any{"id": u.ID, "email": u.Email, "profile": profile, "created": created})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email (required)")
	cmd.Flags().StringVar(&password, "password", "", "initial password (required)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&profile, "profile", "sales", "profile name: admin, sales, viewer or a custom one")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func upsertUser(gdb *gorm.DB, email, password, name, profileName string) (*models.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, false, fmt.Errorf("invalid email %q", email)
	}
	if len(password) < MinPasswordLength {
		return nil, false, fmt.Errorf("password must have at least %d characters", MinPasswordLength)
	}
	var profile models.Profile
	if err := gdb.Where("name = ?", profileName).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("unknown profile %q", profileName)
		}
		return nil, false, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	var u models.User
	err = gdb.Where("email = ?", email).First(&u).Error
	created := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !created {
		return nil, false, err
	}
	u.Email = email
	u.Password = string(hash)
	u.ProfileID = &profile.ID
	if name != "" {
		u.Name = name
	}
	if err := gdb.Save(&u).Error; err != nil {
		return nil, false, fmt.Errorf("save user: %w", err)
	}
	return &u, created, nil
}
