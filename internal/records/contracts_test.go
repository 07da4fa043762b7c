package records

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"exportdesk/internal/apperrors"
	"exportdesk/internal/models"
)

func TestContractCreateAndVisibility(t *testing.T) {
	f := setup(t)
	store := NewContractStore(f.db)

	c, err := store.Create(f.declarant, ContractInput{Number: "EC-300", Date: time.Now(), ClientID: f.acme.ID})
	require.NoError(t, err)
	require.Equal(t, f.declarant.UserID, c.UserID)
	require.Len(t, f.logsFor(t, "export_contracts", c.ID), 1)

	_, err = store.Create(f.declarant, ContractInput{Number: "EC-301", Date: time.Now(), ClientID: f.globex.ID})
	require.ErrorIs(t, err, apperrors.ErrTenantMismatch)

	scoped, err := store.List(f.declarant)
	require.NoError(t, err)
	for _, row := range scoped {
		require.Equal(t, f.acme.ID, row.ClientID)
	}

	all, err := store.List(f.admin)
	require.NoError(t, err)
	require.Len(t, all, 3) // two fixture contracts plus EC-300
}

func TestContractUpdate(t *testing.T) {
	f := setup(t)
	store := NewContractStore(f.db)

	updated, err := store.Update(f.admin, f.acmeDeal.ID, ContractInput{
		Number: "EC-100-R1", Date: f.acmeDeal.Date, ClientID: f.acme.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "EC-100-R1", updated.Number)

	logs := f.logsFor(t, "export_contracts", f.acmeDeal.ID)
	require.Len(t, logs, 1)
	require.Equal(t, "update", logs[0].Action)
	require.Contains(t, string(logs[0].Detail), "EC-100")
	require.Contains(t, string(logs[0].Detail), "EC-100-R1")

	_, err = store.Update(f.declarant, f.globexDeal.ID, ContractInput{
		Number: "X", Date: time.Now(), ClientID: f.globex.ID,
	})
	require.ErrorIs(t, err, apperrors.ErrTenantMismatch)
}

func TestContractReferentialGuard(t *testing.T) {
	f := setup(t)
	contracts := NewContractStore(f.db)
	general := NewGeneralStore(f.db)

	e, err := general.Create(f.admin, f.generalInput(f.acme.ID, f.acmeDeal.ID))
	require.NoError(t, err)

	err = contracts.Delete(f.admin, f.acmeDeal.ID)
	require.ErrorIs(t, err, apperrors.ErrContractInUse)

	// Both the contract and the referencing entry survive, and no delete
	// audit row was written.
	require.NoError(t, f.db.First(&models.ExportContract{}, "id = ?", f.acmeDeal.ID).Error)
	require.NoError(t, f.db.First(&models.GeneralData{}, "id = ?", e.ID).Error)
	logs := f.logsFor(t, "export_contracts", f.acmeDeal.ID)
	require.Empty(t, logs)

	require.NoError(t, general.Delete(f.admin, e.ID))
	require.NoError(t, contracts.Delete(f.admin, f.acmeDeal.ID))
	logs = f.logsFor(t, "export_contracts", f.acmeDeal.ID)
	require.Len(t, logs, 1)
	require.Equal(t, "delete", logs[0].Action)
}
