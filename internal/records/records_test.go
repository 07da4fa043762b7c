package records

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"exportdesk/internal/auth"
	"exportdesk/internal/models"
)

// fixture is the shared tenant topology for record-store tests: two
// clients, an admin, an unscoped manager and a declarant bound to acme.
type fixture struct {
	db         *gorm.DB
	acme       models.Client
	globex     models.Client
	admin      auth.Actor
	staff      auth.Actor
	declarant  auth.Actor
	gateway    models.Gateway
	terminal   models.Terminal
	acmeDeal   models.ExportContract
	globexDeal models.ExportContract
}

func setup(t *testing.T) fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	f := fixture{db: db}
	f.acme = models.Client{Name: "Acme Export"}
	require.NoError(t, db.Create(&f.acme).Error)
	f.globex = models.Client{Name: "Globex Trade"}
	require.NoError(t, db.Create(&f.globex).Error)

	adminRole := models.Role{Name: models.RoleAdministrator}
	require.NoError(t, db.Create(&adminRole).Error)
	managerRole := models.Role{Name: models.RoleManager}
	require.NoError(t, db.Create(&managerRole).Error)
	declarantRole := models.Role{Name: models.RoleDeclarant}
	require.NoError(t, db.Create(&declarantRole).Error)

	users := []models.User{
		{Username: "root", Email: "root@example.com", PasswordHash: "x", RoleID: adminRole.ID, IsActive: true},
		{Username: "staff", Email: "staff@example.com", PasswordHash: "x", RoleID: managerRole.ID, IsActive: true},
		{Username: "decl", Email: "decl@example.com", PasswordHash: "x", RoleID: declarantRole.ID, ClientID: &f.acme.ID, IsActive: true},
	}
	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error)
	}
	f.admin = auth.Actor{UserID: users[0].ID, RoleName: models.RoleAdministrator, Admin: true, Active: true}
	f.staff = auth.Actor{UserID: users[1].ID, RoleName: models.RoleManager, Active: true}
	f.declarant = auth.Actor{UserID: users[2].ID, RoleName: models.RoleDeclarant, ClientID: &f.acme.ID, Active: true}

	f.gateway = models.Gateway{Name: "North Gate"}
	require.NoError(t, db.Create(&f.gateway).Error)
	f.terminal = models.Terminal{Name: "Terminal 2"}
	require.NoError(t, db.Create(&f.terminal).Error)

	f.acmeDeal = models.ExportContract{Number: "EC-100", Date: time.Now(), ClientID: f.acme.ID, UserID: f.admin.UserID}
	require.NoError(t, db.Create(&f.acmeDeal).Error)
	f.globexDeal = models.ExportContract{Number: "EC-200", Date: time.Now(), ClientID: f.globex.ID, UserID: f.admin.UserID}
	require.NoError(t, db.Create(&f.globexDeal).Error)
	return f
}

func (f fixture) generalInput(clientID, contractID uint) GeneralDataInput {
	return GeneralDataInput{
		ClientID:         clientID,
		GatewayID:        f.gateway.ID,
		TerminalID:       f.terminal.ID,
		ExportContractID: contractID,
		Vehicle:          "A123BC",
		InvoiceNumber:    "INV-001",
		DeliveryAddress:  "12 Harbor Rd",
	}
}

func (f fixture) logsFor(t *testing.T, table string, recordID uint) []models.Log {
	t.Helper()
	var logs []models.Log
	require.NoError(t, f.db.Where("table_name = ? AND record_id = ?", table, recordID).
		Order("id").Find(&logs).Error)
	return logs
}
