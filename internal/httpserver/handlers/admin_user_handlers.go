package handlers

import (
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"exportdesk/internal/auth"
	"exportdesk/internal/identity"
)

func ListUsers(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := identity.NewStore(db).List()
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, users)
	}
}

type createUserReq struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	RoleID   uint   `json:"role_id" validate:"required"`
	ClientID *uint  `json:"client_id"`
	IsActive bool   `json:"is_active"`
}

func CreateUser(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserReq
		if err := decodeValid(r, &req); err != nil {
			respondError(w, lg, err)
			return
		}
		actor := auth.FromContext(r.Context())
		u, err := identity.NewStore(db).CreateUser(actor, identity.CreateUserInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			RoleID:   req.RoleID,
			ClientID: req.ClientID,
			IsActive: req.IsActive,
		})
		if err != nil {
			respondError(w, lg, err)
			return
		}
		lg.Infow("user created", "id", u.ID, "by", actor.UserID)
		respondStatus(w, http.StatusCreated, u)
	}
}

type updateUserReq struct {
	Username    *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Password    *string `json:"password"`
	RoleID      *uint   `json:"role_id"`
	ClientID    *uint   `json:"client_id"`
	ClearClient bool    `json:"clear_client"`
	IsActive    *bool   `json:"is_active"`
}

func UpdateUser(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		var req updateUserReq
		if err := decodeValid(r, &req); err != nil {
			respondError(w, lg, err)
			return
		}
		actor := auth.FromContext(r.Context())
		u, err := identity.NewStore(db).UpdateUser(actor, id, identity.UpdateUserInput{
			Username:    req.Username,
			Email:       req.Email,
			Password:    req.Password,
			RoleID:      req.RoleID,
			ClientID:    req.ClientID,
			ClearClient: req.ClearClient,
			IsActive:    req.IsActive,
		})
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, u)
	}
}

func DeleteUser(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		actor := auth.FromContext(r.Context())
		if err := identity.NewStore(db).DeleteUser(actor, id); err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, map[string]any{"deleted": true})
	}
}
