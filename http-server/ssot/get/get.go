package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/middleware/team"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/ssot"
)

type SSOTProvider interface {
	Page(ctx context.Context, req ssot.Request, search string) (*ssot.View, error)
	Reload(ctx context.Context, req ssot.Request) (*ssot.View, error)
	More(ctx context.Context, req ssot.Request) (*ssot.View, error)
}

// GetSSOT returns the first page of the requisition spreadsheet:
// GET /api/ssot?search=. Without the search parameter the saved search is
// kept.
func GetSSOT(log *slog.Logger, provider SSOTProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ssot.GetSSOT"

		id, _ := team.FromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		req := ssot.Request{TeamID: id.TeamID, UserID: id.UserID}

		var view *ssot.View
		var err error
		if q := r.URL.Query(); q.Has("search") {
			view, err = provider.Page(ctx, req, q.Get("search"))
		} else {
			view, err = provider.Reload(ctx, req)
		}
		if err != nil {
			log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("error", err.Error()),
			).Error("failed to fetch ssot page")
			http.Error(w, "Failed to fetch requisition list", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, view)
	}
}

// GetSSOTMore appends the next page: GET /api/ssot/more.
func GetSSOTMore(log *slog.Logger, provider SSOTProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ssot.GetSSOTMore"

		id, _ := team.FromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		view, err := provider.More(ctx, ssot.Request{TeamID: id.TeamID, UserID: id.UserID})
		if err != nil {
			log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("error", err.Error()),
			).Error("failed to fetch next ssot page")
			http.Error(w, "Failed to fetch requisition list", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, view)
	}
}
