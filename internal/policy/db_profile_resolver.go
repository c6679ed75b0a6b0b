package policy

import (
	"context"
	"errors"

	"github.com/diewo77/salescrm/gate"
	"github.com/diewo77/salescrm/internal/models"
	"gorm.io/gorm"
)

// DBProfileResolver loads a user's profile and permissions with GORM.
type DBProfileResolver struct {
	DB *gorm.DB
}

func NewDBProfileResolver(db *gorm.DB) *DBProfileResolver {
	return &DBProfileResolver{DB: db}
}

// Resolve returns nil, nil for unknown users and users without a profile.
func (r *DBProfileResolver) Resolve(ctx context.Context, userID uint) (gate.Profile, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Preload("Profile.Permissions").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if user.Profile == nil {
		return nil, nil
	}
	return newProfile(user.Profile), nil
}

func newProfile(p *models.Profile) gate.Profile {
	perms := make([]gate.Permission, len(p.Permissions))
	for i, perm := range p.Permissions {
		perms[i] = gate.NewPermission(perm.ResourceType, gate.Action(perm.Action))
	}
	return gate.NewStaticProfile(p.ID, p.Name, perms...)
}
