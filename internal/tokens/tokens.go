// Package tokens manages the lifecycle of invitations and password-reset
// tokens: cryptographically random identifiers with fixed TTLs, consumable
// at most once.
package tokens

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"exportdesk/internal/apperrors"
	"exportdesk/internal/auth"
	"exportdesk/internal/identity"
	"exportdesk/internal/models"
)

const (
	InvitationTTL = 7 * 24 * time.Hour
	ResetTTL      = time.Hour
)

type Manager struct {
	db *gorm.DB
}

func NewManager(db *gorm.DB) *Manager { return &Manager{db: db} }

// IssueInvitation creates a single-use registration token carrying the
// role, and optionally the tenant, the invited user will receive.
func (m *Manager) IssueInvitation(roleID uint, clientID *uint) (models.Invitation, error) {
	inv := models.Invitation{
		Token:     uuid.NewString(),
		RoleID:    roleID,
		ClientID:  clientID,
		ExpiresAt: time.Now().Add(InvitationTTL),
	}
	if err := m.db.Create(&inv).Error; err != nil {
		return models.Invitation{}, apperrors.FromDB(err)
	}
	return inv, nil
}

// InvitationByToken validates an invitation for preview without consuming
// it. Used wins over expired: a consumed invitation always reports
// TOKEN_ALREADY_USED regardless of its expiry.
func (m *Manager) InvitationByToken(token string) (models.Invitation, error) {
	var inv models.Invitation
	err := m.db.Preload("Role").Preload("Client").First(&inv, "token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Invitation{}, apperrors.ErrTokenNotFound
		}
		return models.Invitation{}, err
	}
	if inv.Used {
		return models.Invitation{}, apperrors.ErrTokenAlreadyUsed
	}
	if !time.Now().Before(inv.ExpiresAt) {
		return models.Invitation{}, apperrors.ErrTokenExpired
	}
	return inv, nil
}

// PendingInvitations lists invitations that are still redeemable.
func (m *Manager) PendingInvitations() ([]models.Invitation, error) {
	var invs []models.Invitation
	err := m.db.Preload("Role").Preload("Client").
		Where("used = ? AND expires_at > ?", false, time.Now()).
		Order("created_at desc").Find(&invs).Error
	return invs, err
}

func (m *Manager) DeleteInvitation(id uint) error {
	res := m.db.Delete(&models.Invitation{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Registration is the invitation-supplied self-registration payload. Role
// and tenant come from the invitation itself, which was pre-authorized by
// an administrator.
type Registration struct {
	Username string
	Email    string
	Password string
}

// RedeemInvitation consumes the invitation and creates the user in one
// transaction. The used flag is re-checked and flipped inside that same
// transaction so a token can never be redeemed twice.
func (m *Manager) RedeemInvitation(token string, reg Registration) (models.User, error) {
	if err := auth.CheckStrength(reg.Password); err != nil {
		return models.User{}, err
	}
	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return models.User{}, err
	}
	var u models.User
	err = m.db.Transaction(func(tx *gorm.DB) error {
		var inv models.Invitation
		if err := tx.First(&inv, "token = ?", token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTokenNotFound
			}
			return err
		}
		if inv.Used {
			return apperrors.ErrTokenAlreadyUsed
		}
		if !time.Now().Before(inv.ExpiresAt) {
			return apperrors.ErrTokenExpired
		}
		u = models.User{
			Username:     strings.TrimSpace(reg.Username),
			Email:        strings.ToLower(strings.TrimSpace(reg.Email)),
			PasswordHash: hash,
			RoleID:       inv.RoleID,
			ClientID:     inv.ClientID,
			IsActive:     true,
		}
		if err := identity.CheckUnique(tx, u.Username, u.Email, 0); err != nil {
			return err
		}
		if err := tx.Create(&u).Error; err != nil {
			return apperrors.FromDB(err)
		}
		inv.Used = true
		return tx.Save(&inv).Error
	})
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// IssueReset creates a one-hour reset token for the user.
func (m *Manager) IssueReset(userID uint) (models.PasswordResetToken, error) {
	t := models.PasswordResetToken{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(ResetTTL),
	}
	if err := m.db.Create(&t).Error; err != nil {
		return models.PasswordResetToken{}, apperrors.FromDB(err)
	}
	return t, nil
}

// ResetByToken validates a reset token without consuming it.
func (m *Manager) ResetByToken(token string) (models.PasswordResetToken, error) {
	var t models.PasswordResetToken
	err := m.db.First(&t, "token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.PasswordResetToken{}, apperrors.ErrTokenNotFound
		}
		return models.PasswordResetToken{}, err
	}
	if !time.Now().Before(t.ExpiresAt) {
		return models.PasswordResetToken{}, apperrors.ErrTokenExpired
	}
	return t, nil
}

// RedeemReset rewrites the user's password and deletes the token in one
// transaction; the token is single-use by removal, so a second attempt
// fails with TOKEN_NOT_FOUND.
func (m *Manager) RedeemReset(token, newPassword string) error {
	if err := auth.CheckStrength(newPassword); err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return m.db.Transaction(func(tx *gorm.DB) error {
		var t models.PasswordResetToken
		if err := tx.First(&t, "token = ?", token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTokenNotFound
			}
			return err
		}
		if !time.Now().Before(t.ExpiresAt) {
			return apperrors.ErrTokenExpired
		}
		if err := tx.Model(&models.User{}).Where("id = ?", t.UserID).
			Update("password_hash", hash).Error; err != nil {
			return err
		}
		return tx.Delete(&t).Error
	})
}
