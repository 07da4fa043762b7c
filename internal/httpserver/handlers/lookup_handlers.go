package handlers

import (
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"exportdesk/internal/records"
)

func ListGateways(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gs, err := records.NewLookupStore(db).Gateways()
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, gs)
	}
}

type gatewayReq struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

func CreateGateway(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gatewayReq
		if err := decodeValid(r, &req); err != nil {
			respondError(w, lg, err)
			return
		}
		g, err := records.NewLookupStore(db).CreateGateway(req.Name, req.Description)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondStatus(w, http.StatusCreated, g)
	}
}

func ListTerminals(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, err := records.NewLookupStore(db).Terminals()
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, ts)
	}
}

type terminalReq struct {
	Name string `json:"name" validate:"required,max=100"`
}

func CreateTerminal(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req terminalReq
		if err := decodeValid(r, &req); err != nil {
			respondError(w, lg, err)
			return
		}
		t, err := records.NewLookupStore(db).CreateTerminal(req.Name)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondStatus(w, http.StatusCreated, t)
	}
}
