package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"exportdesk/internal/auth"
	"exportdesk/internal/config"
	"exportdesk/internal/httpserver"
	"exportdesk/internal/logger"
	"exportdesk/internal/models"
	"exportdesk/internal/notify"
)

func main() {
	_ = godotenv.Load()
	lg := logger.New()
	defer lg.Sync()

	cfg, err := config.Load()
	if err != nil {
		lg.Fatalw("config load failed", "error", err)
	}
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		lg.Fatalw("db connect failed", "error", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		lg.Fatalw("automigrate failed", "error", err)
	}
	seedRoles(db, lg)
	seedDefaultAdmin(db, lg, cfg)

	notifier := notify.New(cfg.SMTP, lg)
	router := httpserver.NewRouter(db, lg, cfg, notifier)

	lg.Infow("listening", "port", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		log.Fatal(err)
	}
}

func seedRoles(db *gorm.DB, lg *zap.SugaredLogger) {
	roles := []models.Role{
		{Name: models.RoleAdministrator, Description: "Full access to the system"},
		{Name: models.RoleManager, Description: "Client management"},
		{Name: models.RoleDeclarant, Description: "Restricted, client-scoped access"},
	}
	for _, role := range roles {
		var count int64
		db.Model(&models.Role{}).Where("name = ?", role.Name).Count(&count)
		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				lg.Errorw("role seed failed", "role", role.Name, "error", err)
			}
		}
	}
}

// seedDefaultAdmin bootstraps the first administrator account. Skipped when
// ADMIN_PASSWORD is unset or the account already exists.
func seedDefaultAdmin(db *gorm.DB, lg *zap.SugaredLogger, cfg config.Config) {
	if cfg.AdminPassword == "" {
		return
	}
	email := strings.ToLower(cfg.AdminEmail)
	var count int64
	db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return
	}
	var adminRole models.Role
	if err := db.First(&adminRole, "name = ?", models.RoleAdministrator).Error; err != nil {
		lg.Errorw("admin role missing", "error", err)
		return
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		lg.Errorw("admin seed failed", "error", err)
		return
	}
	u := models.User{
		Username:     cfg.AdminUsername,
		Email:        email,
		PasswordHash: hash,
		RoleID:       adminRole.ID,
		IsActive:     true,
	}
	if err := db.Create(&u).Error; err != nil {
		lg.Errorw("admin seed failed", "error", err)
		return
	}
	lg.Infow("seeded default admin", "email", email)
}
