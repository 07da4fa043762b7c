// Package records is the tenant-scoped store for export contracts and
// general-data entries. Every successful mutation writes exactly one audit
// row inside the same transaction as the record change.
package records

import (
	"gorm.io/gorm"

	"exportdesk/internal/apperrors"
	"exportdesk/internal/audit"
	"exportdesk/internal/auth"
	"exportdesk/internal/authz"
	"exportdesk/internal/models"
)

type GeneralStore struct {
	db *gorm.DB
}

func NewGeneralStore(db *gorm.DB) *GeneralStore { return &GeneralStore{db: db} }

// scope applies the visibility rule: administrators and unscoped staff see
// everything, client-bound actors only their own tenant's rows.
func scope(q *gorm.DB, actor auth.Actor) *gorm.DB {
	if actor.Scoped() {
		return q.Where("client_id = ?", *actor.ClientID)
	}
	return q
}

func (s *GeneralStore) List(actor auth.Actor) ([]models.GeneralData, error) {
	var entries []models.GeneralData
	err := scope(s.db, actor).Order("created_at desc, id desc").Find(&entries).Error
	return entries, err
}

func (s *GeneralStore) Get(actor auth.Actor, id uint) (models.GeneralData, error) {
	var e models.GeneralData
	if err := s.db.First(&e, "id = ?", id).Error; err != nil {
		return models.GeneralData{}, apperrors.FromDB(err)
	}
	if err := authz.TouchRecord(actor, e.ClientID).Err(); err != nil {
		return models.GeneralData{}, err
	}
	return e, nil
}

type GeneralDataInput struct {
	ClientID         uint
	GatewayID        uint
	TerminalID       uint
	ExportContractID uint
	Vehicle          string
	InvoiceNumber    string
	DeliveryAddress  string
}

// Create inserts an entry owned by in.ClientID with the actor as creator.
// A client-bound actor may only create under their own tenant.
func (s *GeneralStore) Create(actor auth.Actor, in GeneralDataInput) (models.GeneralData, error) {
	if err := authz.BindClient(actor, in.ClientID).Err(); err != nil {
		return models.GeneralData{}, err
	}
	e := models.GeneralData{
		ClientID:         in.ClientID,
		UserID:           actor.UserID,
		GatewayID:        in.GatewayID,
		TerminalID:       in.TerminalID,
		ExportContractID: in.ExportContractID,
		Vehicle:          in.Vehicle,
		InvoiceNumber:    in.InvoiceNumber,
		DeliveryAddress:  in.DeliveryAddress,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkGeneralRefs(tx, in); err != nil {
			return err
		}
		if err := tx.Create(&e).Error; err != nil {
			return apperrors.FromDB(err)
		}
		return audit.Record(tx, actor.UserID, audit.ActionCreate, "general_data", e.ID, nil, e)
	})
	if err != nil {
		return models.GeneralData{}, err
	}
	return e, nil
}

// Update rewrites the mutable fields. Both the current tenant of the row
// and the requested binding pass the gate, so a scoped actor can neither
// reach across tenants nor move a row out of their own.
func (s *GeneralStore) Update(actor auth.Actor, id uint, in GeneralDataInput) (models.GeneralData, error) {
	var e models.GeneralData
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&e, "id = ?", id).Error; err != nil {
			return apperrors.FromDB(err)
		}
		if err := authz.TouchRecord(actor, e.ClientID).Err(); err != nil {
			return err
		}
		if err := authz.BindClient(actor, in.ClientID).Err(); err != nil {
			return err
		}
		if err := checkGeneralRefs(tx, in); err != nil {
			return err
		}
		before := e
		e.ClientID = in.ClientID
		e.GatewayID = in.GatewayID
		e.TerminalID = in.TerminalID
		e.ExportContractID = in.ExportContractID
		e.Vehicle = in.Vehicle
		e.InvoiceNumber = in.InvoiceNumber
		e.DeliveryAddress = in.DeliveryAddress
		if err := tx.Save(&e).Error; err != nil {
			return apperrors.FromDB(err)
		}
		return audit.Record(tx, actor.UserID, audit.ActionUpdate, "general_data", e.ID, before, e)
	})
	if err != nil {
		return models.GeneralData{}, err
	}
	return e, nil
}

func (s *GeneralStore) Delete(actor auth.Actor, id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var e models.GeneralData
		if err := tx.First(&e, "id = ?", id).Error; err != nil {
			return apperrors.FromDB(err)
		}
		if err := authz.TouchRecord(actor, e.ClientID).Err(); err != nil {
			return err
		}
		if err := tx.Delete(&models.GeneralData{}, "id = ?", id).Error; err != nil {
			return apperrors.FromDB(err)
		}
		return audit.Record(tx, actor.UserID, audit.ActionDelete, "general_data", e.ID, e, nil)
	})
}

// checkGeneralRefs verifies the referenced lookups and contract exist, so a
// bad id comes back as a validation error instead of a foreign-key fault.
func checkGeneralRefs(tx *gorm.DB, in GeneralDataInput) error {
	var n int64
	if tx.Model(&models.Gateway{}).Where("id = ?", in.GatewayID).Count(&n); n == 0 {
		return apperrors.New(apperrors.CodeValidation, "unknown gateway")
	}
	if tx.Model(&models.Terminal{}).Where("id = ?", in.TerminalID).Count(&n); n == 0 {
		return apperrors.New(apperrors.CodeValidation, "unknown terminal")
	}
	if tx.Model(&models.ExportContract{}).Where("id = ?", in.ExportContractID).Count(&n); n == 0 {
		return apperrors.New(apperrors.CodeValidation, "unknown export contract")
	}
	if tx.Model(&models.Client{}).Where("id = ?", in.ClientID).Count(&n); n == 0 {
		return apperrors.New(apperrors.CodeValidation, "unknown client")
	}
	return nil
}
