package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"exportdesk/internal/apperrors"
	"exportdesk/internal/auth"
	"exportdesk/internal/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func seedRoleAndClient(t *testing.T, db *gorm.DB) (models.Role, models.Client) {
	t.Helper()
	role := models.Role{Name: models.RoleManager}
	require.NoError(t, db.Create(&role).Error)
	client := models.Client{Name: "Acme Export"}
	require.NoError(t, db.Create(&client).Error)
	return role, client
}

func expire(t *testing.T, db *gorm.DB, model any, id uint) {
	t.Helper()
	require.NoError(t, db.Model(model).Where("id = ?", id).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)
}

func TestInvitationLifecycle(t *testing.T) {
	db := setupDB(t)
	role, client := seedRoleAndClient(t, db)
	m := NewManager(db)

	inv, err := m.IssueInvitation(role.ID, &client.ID)
	require.NoError(t, err)
	require.Len(t, inv.Token, 36)
	require.WithinDuration(t, time.Now().Add(InvitationTTL), inv.ExpiresAt, time.Minute)

	reg := Registration{Username: "newhire", Email: "newhire@example.com", Password: "Sup3rSecret!"}

	t.Run("unknown token", func(t *testing.T) {
		_, err := m.RedeemInvitation("does-not-exist", reg)
		require.ErrorIs(t, err, apperrors.ErrTokenNotFound)
	})

	t.Run("redeem creates user with invited role and tenant", func(t *testing.T) {
		u, err := m.RedeemInvitation(inv.Token, reg)
		require.NoError(t, err)
		require.Equal(t, role.ID, u.RoleID)
		require.NotNil(t, u.ClientID)
		require.Equal(t, client.ID, *u.ClientID)
		require.True(t, u.IsActive)
		require.NoError(t, auth.CheckPassword(u.PasswordHash, "Sup3rSecret!"))
	})

	t.Run("second redemption fails", func(t *testing.T) {
		_, err := m.RedeemInvitation(inv.Token, Registration{
			Username: "other", Email: "other@example.com", Password: "Sup3rSecret!",
		})
		require.ErrorIs(t, err, apperrors.ErrTokenAlreadyUsed)
	})

	t.Run("used wins over expired", func(t *testing.T) {
		expire(t, db, &models.Invitation{}, inv.ID)
		_, err := m.RedeemInvitation(inv.Token, reg)
		require.ErrorIs(t, err, apperrors.ErrTokenAlreadyUsed)
		_, err = m.InvitationByToken(inv.Token)
		require.ErrorIs(t, err, apperrors.ErrTokenAlreadyUsed)
	})
}

func TestInvitationExpiry(t *testing.T) {
	db := setupDB(t)
	role, _ := seedRoleAndClient(t, db)
	m := NewManager(db)

	inv, err := m.IssueInvitation(role.ID, nil)
	require.NoError(t, err)
	expire(t, db, &models.Invitation{}, inv.ID)

	_, err = m.RedeemInvitation(inv.Token, Registration{
		Username: "late", Email: "late@example.com", Password: "Sup3rSecret!",
	})
	require.ErrorIs(t, err, apperrors.ErrTokenExpired)

	// An expired, unused invitation stays unused and no user is created.
	var reloaded models.Invitation
	require.NoError(t, db.First(&reloaded, "id = ?", inv.ID).Error)
	require.False(t, reloaded.Used)
	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	require.Zero(t, n)
}

func TestInvitationDuplicateRegistration(t *testing.T) {
	db := setupDB(t)
	role, _ := seedRoleAndClient(t, db)
	m := NewManager(db)

	first, err := m.IssueInvitation(role.ID, nil)
	require.NoError(t, err)
	_, err = m.RedeemInvitation(first.Token, Registration{
		Username: "taken", Email: "taken@example.com", Password: "Sup3rSecret!",
	})
	require.NoError(t, err)

	second, err := m.IssueInvitation(role.ID, nil)
	require.NoError(t, err)
	_, err = m.RedeemInvitation(second.Token, Registration{
		Username: "taken", Email: "fresh@example.com", Password: "Sup3rSecret!",
	})
	require.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	// The failed redemption must not have consumed the invitation.
	var reloaded models.Invitation
	require.NoError(t, db.First(&reloaded, "id = ?", second.ID).Error)
	require.False(t, reloaded.Used)
}

func TestPendingInvitations(t *testing.T) {
	db := setupDB(t)
	role, _ := seedRoleAndClient(t, db)
	m := NewManager(db)

	live, err := m.IssueInvitation(role.ID, nil)
	require.NoError(t, err)
	stale, err := m.IssueInvitation(role.ID, nil)
	require.NoError(t, err)
	expire(t, db, &models.Invitation{}, stale.ID)

	pending, err := m.PendingInvitations()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, live.ID, pending[0].ID)
}

func TestResetLifecycle(t *testing.T) {
	db := setupDB(t)
	role, _ := seedRoleAndClient(t, db)
	hash, err := auth.HashPassword("OldPassw0rd!")
	require.NoError(t, err)
	u := models.User{Username: "alice", Email: "alice@example.com", PasswordHash: hash, RoleID: role.ID, IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	m := NewManager(db)

	tok, err := m.IssueReset(u.ID)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(ResetTTL), tok.ExpiresAt, time.Minute)

	_, err = m.ResetByToken(tok.Token)
	require.NoError(t, err)

	require.NoError(t, m.RedeemReset(tok.Token, "NewPassw0rd!"))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", u.ID).Error)
	require.NoError(t, auth.CheckPassword(reloaded.PasswordHash, "NewPassw0rd!"))

	t.Run("token is single use by deletion", func(t *testing.T) {
		err := m.RedeemReset(tok.Token, "AnotherPass1!")
		require.ErrorIs(t, err, apperrors.ErrTokenNotFound)
	})
}

func TestResetExpiry(t *testing.T) {
	db := setupDB(t)
	role, _ := seedRoleAndClient(t, db)
	hash, err := auth.HashPassword("OldPassw0rd!")
	require.NoError(t, err)
	u := models.User{Username: "bob", Email: "bob@example.com", PasswordHash: hash, RoleID: role.ID, IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	m := NewManager(db)

	tok, err := m.IssueReset(u.ID)
	require.NoError(t, err)
	expire(t, db, &models.PasswordResetToken{}, tok.ID)

	_, err = m.ResetByToken(tok.Token)
	require.ErrorIs(t, err, apperrors.ErrTokenExpired)
	require.ErrorIs(t, m.RedeemReset(tok.Token, "NewPassw0rd!"), apperrors.ErrTokenExpired)

	// Expired token is not consumed and the credential is unchanged.
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", u.ID).Error)
	require.NoError(t, auth.CheckPassword(reloaded.PasswordHash, "OldPassw0rd!"))
}
