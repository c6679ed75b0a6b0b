package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/diewo77/salescrm/internal/catalog"
	"github.com/diewo77/salescrm/internal/models"
	"gorm.io/gorm"
)

// DBSource reads and writes rows through gorm.
type DBSource struct {
	DB *gorm.DB
}

func NewDBSource(db *gorm.DB) *DBSource {
	return &DBSource{DB: db}
}

func (s *DBSource) Apartments(ctx context.Context) ([]*models.Apartment, error) {
	var list []*models.Apartment
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("fetch apartments: %w", err)
	}
	return list, nil
}

func (s *DBSource) Clients(ctx context.Context) ([]*models.Client, error) {
	var list []*models.Client
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("fetch clients: %w", err)
	}
	return list, nil
}

func (s *DBSource) Client(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch client %s: %w", id, err)
	}
	return &c, nil
}

func (s *DBSource) UpdateField(ctx context.Context, entity catalog.Entity, id, field string, value any) error {
	if err := checkEditable(entity, field); err != nil {
		return err
	}
	var model any = &models.Apartment{}
	if entity == catalog.Clients {
		model = &models.Client{}
	}
	res := s.DB.WithContext(ctx).Model(model).Where("id = ?", id).Update(field, value)
	if res.Error != nil {
		return translate(res.Error, "update "+entity.Table()+"."+field)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *DBSource) InsertClient(ctx context.Context, c *models.Client) error {
	if err := s.DB.WithContext(ctx).Create(c).Error; err != nil {
		return translate(err, "insert client")
	}
	return nil
}

func translate(err error, op string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err.Error()) {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}
