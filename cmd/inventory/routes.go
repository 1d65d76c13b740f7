package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getadmin "github.com/IvorG24/formsly-inventory-test-sub000/http-server/admin/get"
	saveadmin "github.com/IvorG24/formsly-inventory-test-sub000/http-server/admin/save"
	upadmin "github.com/IvorG24/formsly-inventory-test-sub000/http-server/admin/update"
	export_report "github.com/IvorG24/formsly-inventory-test-sub000/http-server/generate-report/export-report"
	getreport "github.com/IvorG24/formsly-inventory-test-sub000/http-server/reports/get"
	upreport "github.com/IvorG24/formsly-inventory-test-sub000/http-server/reports/update"
	getssot "github.com/IvorG24/formsly-inventory-test-sub000/http-server/ssot/get"
	upssot "github.com/IvorG24/formsly-inventory-test-sub000/http-server/ssot/update"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/config"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/middleware/auth"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/middleware/team"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/ssot"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/views"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage/mysql"
)

func routes(cfg config.Config, log *slog.Logger, db *mysql.Storage, reports *views.Manager, spreadsheet *ssot.Manager) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", team.HeaderTeamID, team.HeaderTeamName, team.HeaderUserID},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Route("/api", func(r chi.Router) {
		r.Use(team.Require)

		// report views
		r.Get("/reports/{view}", getreport.GetReport(log, reports))
		r.Get("/reports/{view}/more", getreport.GetMore(log, reports))
		r.Get("/reports/{view}/columns", getreport.GetColumns(log, reports))
		r.Put("/reports/{view}/filters", upreport.UpdateFilter(log, reports))
		r.Post("/reports/{view}/filters/submit", upreport.SubmitFilters(log, reports))
		r.Put("/reports/{view}/sort", upreport.UpdateSort(log, reports))
		r.Put("/reports/{view}/columns/{accessor}/toggle", upreport.ToggleColumn(log, reports))
		r.Delete("/reports/{view}", upreport.ResetView(log, reports))
		r.Get("/reports/{view}/export", export_report.ExportReport(log, reports))

		// requisition spreadsheet
		r.Get("/ssot", getssot.GetSSOT(log, spreadsheet))
		r.Get("/ssot/more", getssot.GetSSOTMore(log, spreadsheet))
		r.Put("/ssot/tables/{table}/toggle", upssot.ToggleTable(log, spreadsheet))
		r.Put("/ssot/tables/{table}/columns/{accessor}/toggle", upssot.ToggleColumn(log, spreadsheet))

		// inventory settings
		r.Get("/inventory/security-group", getadmin.GetSecurityGroup(log, db))
		r.Get("/inventory/custom-fields", getadmin.GetCustomFields(log, db))
		r.Post("/inventory/custom-fields", saveadmin.SaveCustomField(log, db))
		r.Post("/inventory/warranties", saveadmin.SaveWarranty(log, db))
		r.Post("/inventory/maintenance", saveadmin.SaveMaintenance(log, db))
		r.Post("/inventory/employees", saveadmin.SaveEmployee(log, db))
		r.Put("/inventory/{entity}/{id}/disable", upadmin.DisableEntity(log, db))
		r.Put("/inventory/{entity}/{id}/status", upadmin.UpdateStatus(log, db))
	})

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Get("/views", getadmin.GetViews(log, reports))
	adminRouter.Delete("/views/{view}/users/{userID}", upadmin.ResetUserView(log, reports))

	router.Mount("/admin", adminRouter)

	return router
}
