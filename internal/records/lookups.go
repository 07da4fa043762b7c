package records

import (
	"strings"

	"gorm.io/gorm"

	"exportdesk/internal/apperrors"
	"exportdesk/internal/models"
)

// LookupStore manages the admin-maintained reference entities: clients,
// gateways and terminals. Gateways and terminals are globally shared;
// clients are the tenant roots themselves.
type LookupStore struct {
	db *gorm.DB
}

func NewLookupStore(db *gorm.DB) *LookupStore { return &LookupStore{db: db} }

func (s *LookupStore) Clients() ([]models.Client, error) {
	var cs []models.Client
	err := s.db.Order("name").Find(&cs).Error
	return cs, err
}

func (s *LookupStore) CreateClient(name, description string) (models.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Client{}, apperrors.New(apperrors.CodeValidation, "client name required")
	}
	if err := s.checkName(&models.Client{}, name, 0); err != nil {
		return models.Client{}, err
	}
	c := models.Client{Name: name, Description: description}
	if err := s.db.Create(&c).Error; err != nil {
		return models.Client{}, apperrors.FromDB(err)
	}
	return c, nil
}

func (s *LookupStore) UpdateClient(id uint, name, description *string) (models.Client, error) {
	var c models.Client
	if err := s.db.First(&c, "id = ?", id).Error; err != nil {
		return models.Client{}, apperrors.FromDB(err)
	}
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return models.Client{}, apperrors.New(apperrors.CodeValidation, "client name required")
		}
		if err := s.checkName(&models.Client{}, n, c.ID); err != nil {
			return models.Client{}, err
		}
		c.Name = n
	}
	if description != nil {
		c.Description = *description
	}
	if err := s.db.Save(&c).Error; err != nil {
		return models.Client{}, apperrors.FromDB(err)
	}
	return c, nil
}

func (s *LookupStore) Gateways() ([]models.Gateway, error) {
	var gs []models.Gateway
	err := s.db.Order("name").Find(&gs).Error
	return gs, err
}

func (s *LookupStore) CreateGateway(name, description string) (models.Gateway, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Gateway{}, apperrors.New(apperrors.CodeValidation, "gateway name required")
	}
	if err := s.checkName(&models.Gateway{}, name, 0); err != nil {
		return models.Gateway{}, err
	}
	g := models.Gateway{Name: name, Description: description}
	if err := s.db.Create(&g).Error; err != nil {
		return models.Gateway{}, apperrors.FromDB(err)
	}
	return g, nil
}

func (s *LookupStore) Terminals() ([]models.Terminal, error) {
	var ts []models.Terminal
	err := s.db.Order("name").Find(&ts).Error
	return ts, err
}

func (s *LookupStore) CreateTerminal(name string) (models.Terminal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Terminal{}, apperrors.New(apperrors.CodeValidation, "terminal name required")
	}
	if err := s.checkName(&models.Terminal{}, name, 0); err != nil {
		return models.Terminal{}, err
	}
	t := models.Terminal{Name: name}
	if err := s.db.Create(&t).Error; err != nil {
		return models.Terminal{}, apperrors.FromDB(err)
	}
	return t, nil
}

// checkName is the name-uniqueness pre-check; the unique index remains the
// fallback for concurrent creates.
func (s *LookupStore) checkName(model any, name string, excludeID uint) error {
	var n int64
	if err := s.db.Model(model).
		Where("name = ? AND id <> ?", name, excludeID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return apperrors.New(apperrors.CodeValidation, "name already taken")
	}
	return nil
}
