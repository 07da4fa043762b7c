package handlers

import (
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"exportdesk/internal/records"
)

func ListClients(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cs, err := records.NewLookupStore(db).Clients()
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, cs)
	}
}

type clientReq struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description"`
}

func CreateClient(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clientReq
		if err := decodeValid(r, &req); err != nil {
			respondError(w, lg, err)
			return
		}
		c, err := records.NewLookupStore(db).CreateClient(req.Name, req.Description)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondStatus(w, http.StatusCreated, c)
	}
}

type updateClientReq struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description"`
}

func UpdateClient(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		var req updateClientReq
		if err := decodeValid(r, &req); err != nil {
			respondError(w, lg, err)
			return
		}
		c, err := records.NewLookupStore(db).UpdateClient(id, req.Name, req.Description)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, c)
	}
}
