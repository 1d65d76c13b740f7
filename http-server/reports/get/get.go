package get

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/middleware/team"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/columns"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/views"
)

type ReportProvider interface {
	Table(ctx context.Context, req views.Request, page int) (*views.Table, error)
	More(ctx context.Context, req views.Request) (*views.Table, error)
	Columns(ctx context.Context, req views.Request) ([]columns.Descriptor, error)
	Title(view string) string
}

// GetReport returns one page of a report view: GET /api/reports/{view}?page=N.
func GetReport(log *slog.Logger, reports ReportProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.GetReport"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			n, err := strconv.Atoi(p)
			if err != nil || n < 1 {
				http.Error(w, "invalid page", http.StatusBadRequest)
				return
			}
			page = n
		}

		req := viewRequest(r)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		table, err := reports.Table(ctx, req, page)
		if err != nil {
			fail(w, log, reports, req.View, err)
			return
		}

		render.JSON(w, r, table)
	}
}

// GetMore appends the next page for infinite scroll.
func GetMore(log *slog.Logger, reports ReportProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.GetMore"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		req := viewRequest(r)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		table, err := reports.More(ctx, req)
		if err != nil {
			fail(w, log, reports, req.View, err)
			return
		}

		render.JSON(w, r, table)
	}
}

func GetColumns(log *slog.Logger, reports ReportProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.GetColumns"

		req := viewRequest(r)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		cols, err := reports.Columns(ctx, req)
		if err != nil {
			fail(w, log.With(slog.String("op", op)), reports, req.View, err)
			return
		}

		render.JSON(w, r, cols)
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

// fail hides source errors behind the generic list message.
func fail(w http.ResponseWriter, log *slog.Logger, reports ReportProvider, view string, err error) {
	if errors.Is(err, views.ErrUnknownView) {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}
	log.Error("failed to fetch report", slog.String("view", view), slog.String("error", err.Error()))
	http.Error(w, fmt.Sprintf("Failed to fetch %s list", reports.Title(view)), http.StatusInternalServerError)
}
