package records

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"exportdesk/internal/apperrors"
	"exportdesk/internal/models"
)

func TestGeneralDataCreate(t *testing.T) {
	f := setup(t)
	store := NewGeneralStore(f.db)

	e, err := store.Create(f.declarant, f.generalInput(f.acme.ID, f.acmeDeal.ID))
	require.NoError(t, err)
	require.Equal(t, f.acme.ID, e.ClientID)
	require.Equal(t, f.declarant.UserID, e.UserID)

	t.Run("exactly one audit row with full snapshot", func(t *testing.T) {
		logs := f.logsFor(t, "general_data", e.ID)
		require.Len(t, logs, 1)
		require.Equal(t, "create", logs[0].Action)
		require.Equal(t, f.declarant.UserID, logs[0].UserID)

		var snap models.GeneralData
		require.NoError(t, json.Unmarshal(logs[0].Detail, &snap))
		require.Equal(t, "A123BC", snap.Vehicle)
		require.Equal(t, "INV-001", snap.InvoiceNumber)
		require.Equal(t, e.ID, snap.ID)
	})

	t.Run("scoped actor cannot create for another tenant", func(t *testing.T) {
		_, err := store.Create(f.declarant, f.generalInput(f.globex.ID, f.globexDeal.ID))
		require.ErrorIs(t, err, apperrors.ErrTenantMismatch)
	})

	t.Run("unknown gateway is a validation error", func(t *testing.T) {
		in := f.generalInput(f.acme.ID, f.acmeDeal.ID)
		in.GatewayID = 999
		_, err := store.Create(f.admin, in)
		require.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
	})
}

func TestGeneralDataVisibility(t *testing.T) {
	f := setup(t)
	store := NewGeneralStore(f.db)

	_, err := store.Create(f.admin, f.generalInput(f.acme.ID, f.acmeDeal.ID))
	require.NoError(t, err)
	_, err = store.Create(f.admin, f.generalInput(f.globex.ID, f.globexDeal.ID))
	require.NoError(t, err)

	adminList, err := store.List(f.admin)
	require.NoError(t, err)
	require.Len(t, adminList, 2)

	staffList, err := store.List(f.staff)
	require.NoError(t, err)
	require.Len(t, staffList, 2)

	scopedList, err := store.List(f.declarant)
	require.NoError(t, err)
	require.Len(t, scopedList, 1)
	require.Equal(t, f.acme.ID, scopedList[0].ClientID)
}

func TestGeneralDataUpdate(t *testing.T) {
	f := setup(t)
	store := NewGeneralStore(f.db)

	e, err := store.Create(f.admin, f.generalInput(f.globex.ID, f.globexDeal.ID))
	require.NoError(t, err)

	t.Run("cross-tenant update denied without trace", func(t *testing.T) {
		in := f.generalInput(f.globex.ID, f.globexDeal.ID)
		in.Vehicle = "HACKED"
		_, err := store.Update(f.declarant, e.ID, in)
		require.ErrorIs(t, err, apperrors.ErrTenantMismatch)

		var reloaded models.GeneralData
		require.NoError(t, f.db.First(&reloaded, "id = ?", e.ID).Error)
		require.Equal(t, "A123BC", reloaded.Vehicle)
		require.Len(t, f.logsFor(t, "general_data", e.ID), 1) // only the create
	})

	t.Run("update writes old and new snapshots", func(t *testing.T) {
		in := f.generalInput(f.globex.ID, f.globexDeal.ID)
		in.Vehicle = "B777XY"
		updated, err := store.Update(f.admin, e.ID, in)
		require.NoError(t, err)
		require.Equal(t, "B777XY", updated.Vehicle)

		logs := f.logsFor(t, "general_data", e.ID)
		require.Len(t, logs, 2)
		require.Equal(t, "update", logs[1].Action)

		var detail struct {
			Old models.GeneralData `json:"old"`
			New models.GeneralData `json:"new"`
		}
		require.NoError(t, json.Unmarshal(logs[1].Detail, &detail))
		require.Equal(t, "A123BC", detail.Old.Vehicle)
		require.Equal(t, "B777XY", detail.New.Vehicle)
	})
}

func TestGeneralDataDelete(t *testing.T) {
	f := setup(t)
	store := NewGeneralStore(f.db)

	e, err := store.Create(f.admin, f.generalInput(f.acme.ID, f.acmeDeal.ID))
	require.NoError(t, err)

	t.Run("scoped actor deletes within own tenant", func(t *testing.T) {
		require.NoError(t, store.Delete(f.declarant, e.ID))

		logs := f.logsFor(t, "general_data", e.ID)
		require.Len(t, logs, 2)
		require.Equal(t, "delete", logs[1].Action)

		var snap models.GeneralData
		require.NoError(t, json.Unmarshal(logs[1].Detail, &snap))
		require.Equal(t, "A123BC", snap.Vehicle)
	})

	t.Run("deleting a missing row is not found", func(t *testing.T) {
		err := store.Delete(f.admin, e.ID)
		require.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	})
}
