package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/constants"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/middleware/team"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

type StatusUpdater interface {
	GetSecurityGroup(ctx context.Context, teamID, userID string) (storage.SecurityGroup, error)
	UpdateStatus(ctx context.Context, kind, teamID, id, status string) error
}

type StatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus changes the status of an asset request or event:
// PUT /api/inventory/{entity}/{id}/status with entity request or event.
// Members without the update permission get 403 and nothing is written.
func UpdateStatus(log *slog.Logger, updater StatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.UpdateStatus"

		log := log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

		kind := chi.URLParam(r, "entity")
		recordID := chi.URLParam(r, "id")
		table, ok := constants.StatusTables[kind]
		if !ok {
			http.Error(w, "unknown record kind", http.StatusBadRequest)
			return
		}

		var req StatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		status := strings.ToUpper(strings.TrimSpace(req.Status))
		if !table.Statuses[status] {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}

		id, _ := team.FromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		group, err := updater.GetSecurityGroup(ctx, id.TeamID, id.UserID)
		if err != nil {
			log.Error("failed to load security group", slog.String("error", err.Error()))
			http.Error(w, "Failed to update status", http.StatusInternalServerError)
			return
		}
		if !group.CanUpdate {
			http.Error(w, "You do not have permission to update records", http.StatusForbidden)
			return
		}

		err = updater.UpdateStatus(ctx, kind, id.TeamID, recordID, status)
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error("failed to update status", slog.String("kind", kind), slog.String("error", err.Error()))
			http.Error(w, "Failed to update status", http.StatusInternalServerError)
			return
		}

		log.Info("status updated", slog.String("kind", kind), slog.String("id", recordID), slog.String("status", status))
		w.WriteHeader(http.StatusNoContent)
	}
}
