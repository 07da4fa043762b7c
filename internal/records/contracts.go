package records

import (
	"time"

	"gorm.io/gorm"

	"exportdesk/internal/apperrors"
	"exportdesk/internal/audit"
	"exportdesk/internal/auth"
	"exportdesk/internal/authz"
	"exportdesk/internal/models"
)

type ContractStore struct {
	db *gorm.DB
}

func NewContractStore(db *gorm.DB) *ContractStore { return &ContractStore{db: db} }

func (s *ContractStore) List(actor auth.Actor) ([]models.ExportContract, error) {
	var cs []models.ExportContract
	err := scope(s.db.Preload("Client"), actor).Order("date desc, id desc").Find(&cs).Error
	return cs, err
}

func (s *ContractStore) Get(actor auth.Actor, id uint) (models.ExportContract, error) {
	var c models.ExportContract
	if err := s.db.Preload("Client").First(&c, "id = ?", id).Error; err != nil {
		return models.ExportContract{}, apperrors.FromDB(err)
	}
	if err := authz.TouchRecord(actor, c.ClientID).Err(); err != nil {
		return models.ExportContract{}, err
	}
	return c, nil
}

type ContractInput struct {
	Number   string
	Date     time.Time
	ClientID uint
}

func (s *ContractStore) Create(actor auth.Actor, in ContractInput) (models.ExportContract, error) {
	if err := authz.BindClient(actor, in.ClientID).Err(); err != nil {
		return models.ExportContract{}, err
	}
	c := models.ExportContract{
		Number:   in.Number,
		Date:     in.Date,
		ClientID: in.ClientID,
		UserID:   actor.UserID,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if tx.Model(&models.Client{}).Where("id = ?", in.ClientID).Count(&n); n == 0 {
			return apperrors.New(apperrors.CodeValidation, "unknown client")
		}
		if err := tx.Create(&c).Error; err != nil {
			return apperrors.FromDB(err)
		}
		return audit.Record(tx, actor.UserID, audit.ActionCreate, "export_contracts", c.ID, nil, contractSnapshot(c))
	})
	if err != nil {
		return models.ExportContract{}, err
	}
	return c, nil
}

func (s *ContractStore) Update(actor auth.Actor, id uint, in ContractInput) (models.ExportContract, error) {
	var c models.ExportContract
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&c, "id = ?", id).Error; err != nil {
			return apperrors.FromDB(err)
		}
		if err := authz.TouchRecord(actor, c.ClientID).Err(); err != nil {
			return err
		}
		if err := authz.BindClient(actor, in.ClientID).Err(); err != nil {
			return err
		}
		before := contractSnapshot(c)
		c.Number = in.Number
		c.Date = in.Date
		c.ClientID = in.ClientID
		if err := tx.Save(&c).Error; err != nil {
			return apperrors.FromDB(err)
		}
		return audit.Record(tx, actor.UserID, audit.ActionUpdate, "export_contracts", c.ID, before, contractSnapshot(c))
	})
	if err != nil {
		return models.ExportContract{}, err
	}
	return c, nil
}

// Delete removes a contract unless general-data entries still reference it;
// the referential guard runs inside the same transaction as the delete.
func (s *ContractStore) Delete(actor auth.Actor, id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var c models.ExportContract
		if err := tx.First(&c, "id = ?", id).Error; err != nil {
			return apperrors.FromDB(err)
		}
		if err := authz.TouchRecord(actor, c.ClientID).Err(); err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&models.GeneralData{}).
			Where("export_contract_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperrors.ErrContractInUse
		}
		if err := tx.Delete(&models.ExportContract{}, "id = ?", id).Error; err != nil {
			return apperrors.FromDB(err)
		}
		return audit.Record(tx, actor.UserID, audit.ActionDelete, "export_contracts", c.ID, contractSnapshot(c), nil)
	})
}

func contractSnapshot(c models.ExportContract) map[string]any {
	return map[string]any{
		"id":        c.ID,
		"number":    c.Number,
		"date":      c.Date,
		"client_id": c.ClientID,
		"user_id":   c.UserID,
	}
}
