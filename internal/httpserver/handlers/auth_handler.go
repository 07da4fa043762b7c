package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"exportdesk/internal/apperrors"
	"exportdesk/internal/auth"
	"exportdesk/internal/identity"
	"exportdesk/internal/models"
)

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func Login(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := decodeValid(r, &req); err != nil {
			respondError(w, lg, err)
			return
		}
		u, err := identity.NewStore(db).Authenticate(req.Email, req.Password)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		tok, jti, expiresAt, err := auth.Sign(u.ID)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		sess := models.Session{JTI: jti, UserID: u.ID, ExpiresAt: expiresAt}
		if err := db.Create(&sess).Error; err != nil {
			respondError(w, lg, err)
			return
		}
		lg.Infow("login", "user_id", u.ID)
		respondJSON(w, map[string]any{"token": tok})
	}
}

func Me(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := auth.FromContext(r.Context())
		u, err := identity.NewStore(db).Get(actor.UserID)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, u)
	}
}

func Logout(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := auth.FromContext(r.Context())
		now := time.Now()
		_ = db.Model(&models.Session{}).
			Where("user_id = ? AND revoked_at IS NULL", actor.UserID).
			Update("revoked_at", &now).Error
		respondJSON(w, map[string]any{"logged_out": true})
	}
}

type changePasswordReq struct {
	Current string `json:"current_password" validate:"required"`
	New     string `json:"new_password" validate:"required"`
}

// ChangePassword lets the authenticated user rotate their own credential
// after re-verifying the current one.
func ChangePassword(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req changePasswordReq
		if err := decodeValid(r, &req); err != nil {
			respondError(w, lg, err)
			return
		}
		actor := auth.FromContext(r.Context())
		var u models.User
		if err := db.First(&u, "id = ?", actor.UserID).Error; err != nil {
			respondError(w, lg, apperrors.FromDB(err))
			return
		}
		if err := auth.CheckPassword(u.PasswordHash, req.Current); err != nil {
			respondError(w, lg, apperrors.ErrInvalidCredentials)
			return
		}
		if err := auth.CheckStrength(req.New); err != nil {
			respondError(w, lg, err)
			return
		}
		hash, err := auth.HashPassword(req.New)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		if err := db.Model(&u).Update("password_hash", hash).Error; err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, map[string]any{"updated": true})
	}
}
