package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"exportdesk/internal/tokens"
)

type invitationReq struct {
	RoleID   uint  `json:"role_id" validate:"required"`
	ClientID *uint `json:"client_id"`
}

// CreateInvitation issues a registration token and returns the link the
// administrator can hand to the invitee.
func CreateInvitation(db *gorm.DB, lg *zap.SugaredLogger, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req invitationReq
		if err := decodeValid(r, &req); err != nil {
			respondError(w, lg, err)
			return
		}
		inv, err := tokens.NewManager(db).IssueInvitation(req.RoleID, req.ClientID)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		url := fmt.Sprintf("%s/v1/auth/register/%s", strings.TrimRight(baseURL, "/"), inv.Token)
		respondStatus(w, http.StatusCreated, map[string]any{
			"id":         inv.ID,
			"token":      inv.Token,
			"url":        url,
			"expires_at": inv.ExpiresAt,
		})
	}
}

// ListInvitations shows only invitations that are still redeemable.
func ListInvitations(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		invs, err := tokens.NewManager(db).PendingInvitations()
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, invs)
	}
}

func DeleteInvitation(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		if err := tokens.NewManager(db).DeleteInvitation(id); err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, map[string]any{"deleted": true})
	}
}
