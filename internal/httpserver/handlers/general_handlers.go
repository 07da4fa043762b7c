package handlers

import (
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"exportdesk/internal/auth"
	"exportdesk/internal/records"
)

func ListGeneralData(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := records.NewGeneralStore(db).List(auth.FromContext(r.Context()))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, entries)
	}
}

func GetGeneralData(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		e, err := records.NewGeneralStore(db).Get(auth.FromContext(r.Context()), id)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, e)
	}
}

type generalDataReq struct {
	ClientID         uint   `json:"client_id" validate:"required"`
	GatewayID        uint   `json:"gateway_id" validate:"required"`
	TerminalID       uint   `json:"terminal_id" validate:"required"`
	ExportContractID uint   `json:"export_contract_id" validate:"required"`
	Vehicle          string `json:"vehicle" validate:"required,max=100"`
	InvoiceNumber    string `json:"invoice_number" validate:"required,max=50"`
	DeliveryAddress  string `json:"delivery_address"`
}

func (req generalDataReq) input() records.GeneralDataInput {
	return records.GeneralDataInput{
		ClientID:         req.ClientID,
		GatewayID:        req.GatewayID,
		TerminalID:       req.TerminalID,
		ExportContractID: req.ExportContractID,
		Vehicle:          req.Vehicle,
		InvoiceNumber:    req.InvoiceNumber,
		DeliveryAddress:  req.DeliveryAddress,
	}
}

func CreateGeneralData(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generalDataReq
		if err := decodeValid(r, &req); err != nil {
			respondError(w, lg, err)
			return
		}
		e, err := records.NewGeneralStore(db).Create(auth.FromContext(r.Context()), req.input())
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondStatus(w, http.StatusCreated, e)
	}
}

func UpdateGeneralData(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		var req generalDataReq
		if err := decodeValid(r, &req); err != nil {
			respondError(w, lg, err)
			return
		}
		e, err := records.NewGeneralStore(db).Update(auth.FromContext(r.Context()), id, req.input())
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, e)
	}
}

func DeleteGeneralData(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		if err := records.NewGeneralStore(db).Delete(auth.FromContext(r.Context()), id); err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, map[string]any{"deleted": true})
	}
}
