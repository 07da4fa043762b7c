package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"exportdesk/internal/apperrors"
	"exportdesk/internal/authz"
	"exportdesk/internal/models"
	"exportdesk/internal/notify"
	"exportdesk/internal/tokens"
)

func resetURL(baseURL, token string) string {
	return fmt.Sprintf("%s/v1/auth/reset-password/%s", strings.TrimRight(baseURL, "/"), token)
}

// issueAndSend creates the reset token and hands the link to the notifier.
// The token row is committed before delivery is attempted; a delivery
// failure is surfaced as a soft error and never undoes the token.
func issueAndSend(db *gorm.DB, n notify.Notifier, baseURL string, u models.User) (delivered bool, err error) {
	t, err := tokens.NewManager(db).IssueReset(u.ID)
	if err != nil {
		return false, err
	}
	if err := n.SendResetLink(u.Email, resetURL(baseURL, t.Token)); err != nil {
		return false, nil
	}
	return true, nil
}

type forgotPasswordReq struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword is the self-service reset entry point. An unknown email is
// reported as not found rather than answered with a blind success.
func ForgotPassword(db *gorm.DB, lg *zap.SugaredLogger, n notify.Notifier, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req forgotPasswordReq
		if err := decodeValid(r, &req); err != nil {
			respondError(w, lg, err)
			return
		}
		var u models.User
		err := db.First(&u, "email = ?", strings.ToLower(strings.TrimSpace(req.Email))).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(w, lg, apperrors.New(apperrors.CodeNotFound, "no user with that email"))
				return
			}
			respondError(w, lg, err)
			return
		}
		if err := authz.InitiateReset(u).Err(); err != nil {
			respondError(w, lg, err)
			return
		}
		delivered, err := issueAndSend(db, n, baseURL, u)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, map[string]any{"sent": delivered})
	}
}

// ShowReset validates a reset token without consuming it, so the client can
// decide whether to present the new-password form.
func ShowReset(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := tokens.NewManager(db).ResetByToken(chi.URLParam(r, "token"))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, map[string]any{"valid": true, "expires_at": t.ExpiresAt})
	}
}

type resetPasswordReq struct {
	Password string `json:"password" validate:"required"`
}

func ResetPassword(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetPasswordReq
		if err := decodeValid(r, &req); err != nil {
			respondError(w, lg, err)
			return
		}
		if err := tokens.NewManager(db).RedeemReset(chi.URLParam(r, "token"), req.Password); err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, map[string]any{"reset": true})
	}
}

// AdminResetPassword lets an administrator initiate a reset for any active
// user. The response reports whether the link was actually delivered.
func AdminResetPassword(db *gorm.DB, lg *zap.SugaredLogger, n notify.Notifier, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		var u models.User
		if err := db.First(&u, "id = ?", id).Error; err != nil {
			respondError(w, lg, apperrors.FromDB(err))
			return
		}
		if err := authz.InitiateReset(u).Err(); err != nil {
			respondError(w, lg, err)
			return
		}
		delivered, err := issueAndSend(db, n, baseURL, u)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		if !delivered {
			respondJSON(w, map[string]any{"sent": false, "code": apperrors.CodeDeliveryFailed,
				"error": "reset link created but not delivered"})
			return
		}
		respondJSON(w, map[string]any{"sent": true, "email": u.Email})
	}
}
