package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/middleware/team"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/ssot"
)

type SSOTUpdater interface {
	ToggleTable(ctx context.Context, req ssot.Request, table string) (bool, error)
	ToggleColumn(ctx context.Context, req ssot.Request, table, accessor string) (bool, error)
}

// ToggleTable shows or hides a child table: PUT /api/ssot/tables/{table}/toggle.
func ToggleTable(log *slog.Logger, updater SSOTUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ssot.ToggleTable"

		id, _ := team.FromContext(r.Context())
		table := chi.URLParam(r, "table")

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		visible, err := updater.ToggleTable(ctx, ssot.Request{TeamID: id.TeamID, UserID: id.UserID}, table)
		if err != nil {
			fail(w, log.With(slog.String("op", op)), err)
			return
		}

		render.JSON(w, r, map[string]any{"table": table, "visible": visible})
	}
}

// ToggleColumn flips a column of one SSOT table:
// PUT /api/ssot/tables/{table}/columns/{accessor}/toggle.
func ToggleColumn(log *slog.Logger, updater SSOTUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ssot.ToggleColumn"

		id, _ := team.FromContext(r.Context())
		table := chi.URLParam(r, "table")
		accessor := chi.URLParam(r, "accessor")

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		hidden, err := updater.ToggleColumn(ctx, ssot.Request{TeamID: id.TeamID, UserID: id.UserID}, table, accessor)
		if err != nil {
			fail(w, log.With(slog.String("op", op)), err)
			return
		}

		render.JSON(w, r, map[string]any{"table": table, "accessor": accessor, "hidden": hidden})
	}
}

func fail(w http.ResponseWriter, log *slog.Logger, err error) {
	if errors.Is(err, ssot.ErrUnknownTable) || errors.Is(err, ssot.ErrUnknownColumn) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Error("failed to update ssot view", slog.String("error", err.Error()))
	http.Error(w, "Internal error", http.StatusInternalServerError)
}
