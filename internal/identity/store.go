// Package identity owns user accounts and the password-credential
// lifecycle.
package identity

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"exportdesk/internal/apperrors"
	"exportdesk/internal/auth"
	"exportdesk/internal/audit"
	"exportdesk/internal/models"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

// Authenticate resolves email+password to a user. Credential failures and
// inactive accounts are distinct conditions; the inactive check runs after
// credential verification (see DESIGN.md for the information-leak note).
func (s *Store) Authenticate(email, password string) (models.User, error) {
	var u models.User
	err := s.db.Preload("Role").First(&u, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, apperrors.ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return models.User{}, apperrors.ErrInvalidCredentials
	}
	if !u.IsActive {
		return models.User{}, apperrors.ErrAccountInactive
	}
	return u, nil
}

type CreateUserInput struct {
	Username string
	Email    string
	Password string
	RoleID   uint
	ClientID *uint
	IsActive bool
}

// CreateUser inserts a user on behalf of actor, pre-checking username and
// email uniqueness. The unique constraints remain as a safety net for
// concurrent creates and are translated to the same validation error.
func (s *Store) CreateUser(actor auth.Actor, in CreateUserInput) (models.User, error) {
	if err := auth.CheckStrength(in.Password); err != nil {
		return models.User{}, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}
	u := models.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		RoleID:       in.RoleID,
		ClientID:     in.ClientID,
		IsActive:     in.IsActive,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := CheckUnique(tx, u.Username, u.Email, 0); err != nil {
			return err
		}
		if err := tx.Create(&u).Error; err != nil {
			return apperrors.FromDB(err)
		}
		return audit.Record(tx, actor.UserID, audit.ActionCreate, "users", u.ID, nil, snapshot(u))
	})
	if err != nil {
		return models.User{}, err
	}
	return s.byID(u.ID)
}

type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	RoleID   *uint
	ClientID *uint
	// ClearClient detaches the tenant binding; ClientID wins if both set.
	ClearClient bool
	IsActive    *bool
}

func (s *Store) UpdateUser(actor auth.Actor, id uint, in UpdateUserInput) (models.User, error) {
	var u models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, "id = ?", id).Error; err != nil {
			return apperrors.FromDB(err)
		}
		before := snapshot(u)
		if in.Username != nil {
			u.Username = strings.TrimSpace(*in.Username)
		}
		if in.Email != nil {
			u.Email = strings.ToLower(strings.TrimSpace(*in.Email))
		}
		if err := CheckUnique(tx, u.Username, u.Email, u.ID); err != nil {
			return err
		}
		if in.Password != nil && *in.Password != "" {
			if err := auth.CheckStrength(*in.Password); err != nil {
				return err
			}
			hash, err := auth.HashPassword(*in.Password)
			if err != nil {
				return err
			}
			u.PasswordHash = hash
		}
		if in.RoleID != nil {
			u.RoleID = *in.RoleID
		}
		switch {
		case in.ClientID != nil:
			u.ClientID = in.ClientID
		case in.ClearClient:
			u.ClientID = nil
		}
		if in.IsActive != nil {
			u.IsActive = *in.IsActive
		}
		if err := tx.Save(&u).Error; err != nil {
			return apperrors.FromDB(err)
		}
		return audit.Record(tx, actor.UserID, audit.ActionUpdate, "users", u.ID, before, snapshot(u))
	})
	if err != nil {
		return models.User{}, err
	}
	return s.byID(u.ID)
}

func (s *Store) DeleteUser(actor auth.Actor, id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.First(&u, "id = ?", id).Error; err != nil {
			return apperrors.FromDB(err)
		}
		if err := tx.Delete(&models.User{}, "id = ?", id).Error; err != nil {
			return apperrors.FromDB(err)
		}
		return audit.Record(tx, actor.UserID, audit.ActionDelete, "users", u.ID, snapshot(u), nil)
	})
}

func (s *Store) List() ([]models.User, error) {
	var users []models.User
	err := s.db.Preload("Role").Preload("Client").Order("created_at desc").Find(&users).Error
	return users, err
}

func (s *Store) byID(id uint) (models.User, error) {
	var u models.User
	err := s.db.Preload("Role").Preload("Client").First(&u, "id = ?", id).Error
	return u, apperrors.FromDB(err)
}

// Get returns the user with role and client preloaded.
func (s *Store) Get(id uint) (models.User, error) { return s.byID(id) }

// CheckUnique is the primary uniqueness enforcement for username and email,
// run inside the caller's transaction. excludeID skips the row being
// updated.
func CheckUnique(tx *gorm.DB, username, email string, excludeID uint) error {
	var n int64
	if err := tx.Model(&models.User{}).
		Where("username = ? AND id <> ?", username, excludeID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return apperrors.New(apperrors.CodeValidation, "username already taken")
	}
	if err := tx.Model(&models.User{}).
		Where("email = ? AND id <> ?", email, excludeID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return apperrors.New(apperrors.CodeValidation, "email already in use")
	}
	return nil
}

// snapshot strips the credential before a user record enters the audit log.
func snapshot(u models.User) map[string]any {
	return map[string]any{
		"id":        u.ID,
		"username":  u.Username,
		"email":     u.Email,
		"role_id":   u.RoleID,
		"client_id": u.ClientID,
		"is_active": u.IsActive,
	}
}
