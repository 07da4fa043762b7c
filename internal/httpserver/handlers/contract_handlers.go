package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"exportdesk/internal/auth"
	"exportdesk/internal/records"
)

func ListContracts(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cs, err := records.NewContractStore(db).List(auth.FromContext(r.Context()))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, cs)
	}
}

func GetContract(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		c, err := records.NewContractStore(db).Get(auth.FromContext(r.Context()), id)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, c)
	}
}

type contractReq struct {
	Number   string    `json:"number" validate:"required,max=50"`
	Date     time.Time `json:"date" validate:"required"`
	ClientID uint      `json:"client_id" validate:"required"`
}

func (req contractReq) input() records.ContractInput {
	return records.ContractInput{Number: req.Number, Date: req.Date, ClientID: req.ClientID}
}

func CreateContract(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contractReq
		if err := decodeValid(r, &req); err != nil {
			respondError(w, lg, err)
			return
		}
		c, err := records.NewContractStore(db).Create(auth.FromContext(r.Context()), req.input())
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondStatus(w, http.StatusCreated, c)
	}
}

func UpdateContract(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		var req contractReq
		if err := decodeValid(r, &req); err != nil {
			respondError(w, lg, err)
			return
		}
		c, err := records.NewContractStore(db).Update(auth.FromContext(r.Context()), id, req.input())
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, c)
	}
}

func DeleteContract(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		if err := records.NewContractStore(db).Delete(auth.FromContext(r.Context()), id); err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, map[string]any{"deleted": true})
	}
}
