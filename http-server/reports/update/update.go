package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/middleware/team"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/filters"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/views"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

type ReportUpdater interface {
	SetFilter(ctx context.Context, req views.Request, key string, value any) (*views.Table, bool, error)
	SubmitFilters(ctx context.Context, req views.Request) (*views.Table, []string, error)
	SetSort(ctx context.Context, req views.Request, sort storage.Sort) (*views.Table, error)
	ToggleColumn(ctx context.Context, req views.Request, accessor string) (bool, error)
	Reset(ctx context.Context, req views.Request) error
}

var validate = validator.New(validator.WithRequiredStructEnabled())

type FilterRequest struct {
	Key   string `json:"key" validate:"required"`
	Value any    `json:"value"`
}

type FilterResponse struct {
	Changed bool         `json:"changed"`
	Table   *views.Table `json:"table"`
}

// UpdateFilter stages or applies one filter value:
// PUT /api/reports/{view}/filters.
func UpdateFilter(log *slog.Logger, reports ReportUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.UpdateFilter"

		log := log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

		var body FilterRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(body); err != nil {
			http.Error(w, "filter key is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		table, changed, err := reports.SetFilter(ctx, viewRequest(r), body.Key, body.Value)
		if err != nil {
			fail(w, log, err)
			return
		}

		render.JSON(w, r, FilterResponse{Changed: changed, Table: table})
	}
}

type SubmitResponse struct {
	Changed []string     `json:"changed"`
	Table   *views.Table `json:"table"`
}

// SubmitFilters applies staged values: POST /api/reports/{view}/filters/submit.
func SubmitFilters(log *slog.Logger, reports ReportUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.SubmitFilters"

		log := log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		table, changed, err := reports.SubmitFilters(ctx, viewRequest(r))
		if err != nil {
			fail(w, log, err)
			return
		}
		if changed == nil {
			changed = []string{}
		}

		render.JSON(w, r, SubmitResponse{Changed: changed, Table: table})
	}
}

type SortRequest struct {
	Accessor  string `json:"accessor" validate:"required"`
	Direction string `json:"direction" validate:"omitempty,oneof=asc desc"`
}

// UpdateSort switches the sort column: PUT /api/reports/{view}/sort.
func UpdateSort(log *slog.Logger, reports ReportUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.UpdateSort"

		log := log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

		var body SortRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(body); err != nil {
			http.Error(w, "invalid sort", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		table, err := reports.SetSort(ctx, viewRequest(r), storage.Sort{Accessor: body.Accessor, Direction: body.Direction})
		if err != nil {
			fail(w, log, err)
			return
		}

		render.JSON(w, r, table)
	}
}

// ToggleColumn flips one column: PUT /api/reports/{view}/columns/{accessor}/toggle.
func ToggleColumn(log *slog.Logger, reports ReportUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.ToggleColumn"

		log := log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

		accessor := chi.URLParam(r, "accessor")

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		hidden, err := reports.ToggleColumn(ctx, viewRequest(r), accessor)
		if err != nil {
			fail(w, log, err)
			return
		}

		render.JSON(w, r, map[string]any{"accessor": accessor, "hidden": hidden})
	}
}

// ResetView drops the caller's saved state of a view: DELETE /api/reports/{view}.
func ResetView(log *slog.Logger, reports ReportUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.ResetView"

		log := log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := reports.Reset(ctx, viewRequest(r)); err != nil {
			fail(w, log, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func viewRequest(r *http.Request) views.Request {
	id, _ := team.FromContext(r.Context())
	return views.Request{
		View:     chi.URLParam(r, "view"),
		TeamID:   id.TeamID,
		TeamName: id.TeamName,
		UserID:   id.UserID,
	}
}

func fail(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, views.ErrUnknownView):
		http.Error(w, "report not found", http.StatusNotFound)
	case errors.Is(err, views.ErrUnknownColumn),
		errors.Is(err, views.ErrNotSortable),
		errors.Is(err, filters.ErrUnknownFilter),
		errors.Is(err, filters.ErrInvalidValue):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error("failed to update report", slog.String("error", err.Error()))
		http.Error(w, "Failed to update report", http.StatusInternalServerError)
	}
}
