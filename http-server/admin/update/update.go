package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/constants"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/middleware/team"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/views"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

type EntityDisabler interface {
	GetSecurityGroup(ctx context.Context, teamID, userID string) (storage.SecurityGroup, error)
	Disable(ctx context.Context, entity, teamID, id string) error
}

// DisableEntity soft-deletes a site, category, customer or custom field:
// PUT /api/inventory/{entity}/{id}/disable. Members without the disable
// permission get 403 and nothing is written.
func DisableEntity(log *slog.Logger, disabler EntityDisabler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.DisableEntity"

		log := log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

		entity := chi.URLParam(r, "entity")
		recordID := chi.URLParam(r, "id")
		if _, ok := constants.DisableTables[entity]; !ok {
			http.Error(w, "unknown entity", http.StatusBadRequest)
			return
		}

		id, _ := team.FromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		group, err := disabler.GetSecurityGroup(ctx, id.TeamID, id.UserID)
		if err != nil {
			log.Error("failed to load security group", slog.String("error", err.Error()))
			http.Error(w, "Failed to disable record", http.StatusInternalServerError)
			return
		}
		if !group.CanDisable {
			http.Error(w, "You do not have permission to disable records", http.StatusForbidden)
			return
		}

		err = disabler.Disable(ctx, entity, id.TeamID, recordID)
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error("failed to disable record", slog.String("entity", entity), slog.String("error", err.Error()))
			http.Error(w, "Failed to disable record", http.StatusInternalServerError)
			return
		}

		log.Info("record disabled", slog.String("entity", entity), slog.String("id", recordID))
		w.WriteHeader(http.StatusNoContent)
	}
}

type ViewResetter interface {
	Reset(ctx context.Context, req views.Request) error
}

// ResetUserView clears one user's saved state of a view:
// DELETE /admin/views/{view}/users/{userID}.
func ResetUserView(log *slog.Logger, resetter ViewResetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.ResetUserView"

		req := views.Request{View: chi.URLParam(r, "view"), UserID: chi.URLParam(r, "userID")}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		err := resetter.Reset(ctx, req)
		if errors.Is(err, views.ErrUnknownView) {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to reset view")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
