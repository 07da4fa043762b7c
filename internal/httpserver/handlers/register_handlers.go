package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"exportdesk/internal/tokens"
)

// ShowInvitation previews a registration token: the role and client the new
// user would receive. Does not consume the invitation.
func ShowInvitation(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inv, err := tokens.NewManager(db).InvitationByToken(chi.URLParam(r, "token"))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, map[string]any{
			"role":       inv.Role.Name,
			"client":     inv.Client,
			"expires_at": inv.ExpiresAt,
		})
	}
}

type registerReq struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register redeems an invitation and creates the account with the
// invitation's role and tenant. This is the only registration path; it is
// pre-authorized by the administrator who issued the token.
func Register(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerReq
		if err := decodeValid(r, &req); err != nil {
			respondError(w, lg, err)
			return
		}
		u, err := tokens.NewManager(db).RedeemInvitation(chi.URLParam(r, "token"), tokens.Registration{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			respondError(w, lg, err)
			return
		}
		lg.Infow("invitation redeemed", "user_id", u.ID, "username", u.Username)
		respondStatus(w, http.StatusCreated, map[string]any{"id": u.ID, "username": u.Username, "email": u.Email})
	}
}
