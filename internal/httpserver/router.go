package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"exportdesk/internal/auth"
	"exportdesk/internal/authz"
	"exportdesk/internal/config"
	"exportdesk/internal/httpserver/handlers"
	"exportdesk/internal/notify"
)

func NewRouter(db *gorm.DB, lg *zap.SugaredLogger, cfg config.Config, notifier notify.Notifier) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)

	// Token-gated flows bypass normal authentication: the invitation or
	// reset token itself is the credential.
	r.Post("/v1/auth/login", handlers.Login(db, lg))
	r.Post("/v1/auth/forgot-password", handlers.ForgotPassword(db, lg, notifier, cfg.BaseURL))
	r.Get("/v1/auth/reset-password/{token}", handlers.ShowReset(db, lg))
	r.Post("/v1/auth/reset-password/{token}", handlers.ResetPassword(db, lg))
	r.Get("/v1/auth/register/{token}", handlers.ShowInvitation(db, lg))
	r.Post("/v1/auth/register/{token}", handlers.Register(db, lg))

	r.Group(func(protected chi.Router) {
		protected.Use(auth.JWTAuth(db))
		protected.Get("/v1/me", handlers.Me(db, lg))
		protected.Post("/v1/auth/logout", handlers.Logout(db, lg))
		protected.Post("/v1/auth/password", handlers.ChangePassword(db, lg))

		protected.Get("/v1/general", handlers.ListGeneralData(db, lg))
		protected.Post("/v1/general", handlers.CreateGeneralData(db, lg))
		protected.Get("/v1/general/{id}", handlers.GetGeneralData(db, lg))
		protected.Patch("/v1/general/{id}", handlers.UpdateGeneralData(db, lg))
		protected.Delete("/v1/general/{id}", handlers.DeleteGeneralData(db, lg))

		protected.Get("/v1/contracts", handlers.ListContracts(db, lg))
		protected.Post("/v1/contracts", handlers.CreateContract(db, lg))
		protected.Get("/v1/contracts/{id}", handlers.GetContract(db, lg))
		protected.Patch("/v1/contracts/{id}", handlers.UpdateContract(db, lg))
		protected.Delete("/v1/contracts/{id}", handlers.DeleteContract(db, lg))

		protected.Group(func(admin chi.Router) {
			admin.Use(requireAdmin)
			admin.Get("/v1/admin/users", handlers.ListUsers(db, lg))
			admin.Post("/v1/admin/users", handlers.CreateUser(db, lg))
			admin.Patch("/v1/admin/users/{id}", handlers.UpdateUser(db, lg))
			admin.Delete("/v1/admin/users/{id}", handlers.DeleteUser(db, lg))
			admin.Post("/v1/admin/users/{id}/reset-password", handlers.AdminResetPassword(db, lg, notifier, cfg.BaseURL))

			admin.Get("/v1/admin/clients", handlers.ListClients(db, lg))
			admin.Post("/v1/admin/clients", handlers.CreateClient(db, lg))
			admin.Patch("/v1/admin/clients/{id}", handlers.UpdateClient(db, lg))

			admin.Get("/v1/admin/gateways", handlers.ListGateways(db, lg))
			admin.Post("/v1/admin/gateways", handlers.CreateGateway(db, lg))
			admin.Get("/v1/admin/terminals", handlers.ListTerminals(db, lg))
			admin.Post("/v1/admin/terminals", handlers.CreateTerminal(db, lg))

			admin.Get("/v1/admin/invitations", handlers.ListInvitations(db, lg))
			admin.Post("/v1/admin/invitations", handlers.CreateInvitation(db, lg, cfg.BaseURL))
			admin.Delete("/v1/admin/invitations/{id}", handlers.DeleteInvitation(db, lg))

			admin.Get("/v1/logs", handlers.Logs(db, lg))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}

// requireAdmin guards the administrative route group through the
// authorization gate.
func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if d := authz.ManageSystem(auth.FromContext(r.Context())); !d.Allowed {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
