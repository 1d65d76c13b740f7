package get

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/render"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/middleware/team"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/filters"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/views"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

type CustomFieldLister interface {
	ListCustomFields(ctx context.Context, teamID string) ([]storage.CustomField, error)
}

type SecurityGroupProvider interface {
	GetSecurityGroup(ctx context.Context, teamID, userID string) (storage.SecurityGroup, error)
}

type ViewCatalog interface {
	Definitions() map[string]views.Definition
}

func GetCustomFields(log *slog.Logger, lister CustomFieldLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetCustomFields"

		id, _ := team.FromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		fields, err := lister.ListCustomFields(ctx, id.TeamID)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to list custom fields")
			http.Error(w, "Failed to fetch custom field list", http.StatusInternalServerError)
			return
		}
		if fields == nil {
			fields = []storage.CustomField{}
		}

		render.JSON(w, r, fields)
	}
}

// GetSecurityGroup returns the caller's restrictions and permissions so the
// client can lock restricted filters and hide forbidden actions.
func GetSecurityGroup(log *slog.Logger, groups SecurityGroupProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetSecurityGroup"

		id, _ := team.FromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		group, err := groups.GetSecurityGroup(ctx, id.TeamID, id.UserID)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to load security group")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, group)
	}
}

type ViewSummary struct {
	Key     string               `json:"key"`
	Title   string               `json:"title"`
	Version int                  `json:"version"`
	Filters []filters.Definition `json:"filters"`
}

// GetViews lists the report catalog: GET /admin/views.
func GetViews(log *slog.Logger, catalog ViewCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defs := catalog.Definitions()
		out := make([]ViewSummary, 0, len(defs))
		for _, d := range defs {
			out = append(out, ViewSummary{Key: d.Key, Title: d.Title, Version: d.Version, Filters: d.Filters})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

		render.JSON(w, r, out)
	}
}
