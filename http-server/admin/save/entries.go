package save

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/middleware/team"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

const dateLayout = "2006-01-02"

type WarrantyCreator interface {
	GetSecurityGroup(ctx context.Context, teamID, userID string) (storage.SecurityGroup, error)
	CreateWarranty(ctx context.Context, e storage.WarrantyEntry) error
}

type WarrantyRequest struct {
	AssetID     string `json:"asset_id" validate:"required,uuid"`
	Description string `json:"warranty_description" validate:"required,max=500"`
	Months      int    `json:"warranty_months" validate:"gt=0,lte=120"`
	StartDate   string `json:"warranty_start_date" validate:"required,datetime=2006-01-02"`
}

// SaveWarranty adds a warranty entry to an asset: POST /api/inventory/warranties.
// The expiration date is the start date plus the warranty months.
func SaveWarranty(log *slog.Logger, warranties WarrantyCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.SaveWarranty"

		log := log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

		var req WarrantyRequest
		if !decode(w, r, &req, func() { req.Description = strings.TrimSpace(req.Description) }) {
			return
		}
		start, _ := time.Parse(dateLayout, req.StartDate)

		id, _ := team.FromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if !allowCreate(ctx, w, log, warranties, id, "Failed to add warranty") {
			return
		}

		entry := storage.WarrantyEntry{
			ID:             uuid.NewString(),
			TeamID:         id.TeamID,
			AssetID:        req.AssetID,
			Description:    req.Description,
			Months:         req.Months,
			StartDate:      start,
			ExpirationDate: start.AddDate(0, req.Months, 0),
			CreatedBy:      id.UserID,
			CreatedAt:      time.Now().UTC(),
		}
		if err := warranties.CreateWarranty(ctx, entry); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "asset not found", http.StatusNotFound)
				return
			}
			log.Error("failed to add warranty", slog.String("asset_id", req.AssetID), slog.String("error", err.Error()))
			http.Error(w, "Failed to add warranty", http.StatusInternalServerError)
			return
		}

		log.Info("warranty added", slog.String("warranty_id", entry.ID), slog.String("asset_id", entry.AssetID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, entry)
	}
}

type MaintenanceCreator interface {
	GetSecurityGroup(ctx context.Context, teamID, userID string) (storage.SecurityGroup, error)
	CreateMaintenance(ctx context.Context, e storage.MaintenanceEntry) error
}

type MaintenanceRequest struct {
	AssetID       string `json:"asset_id" validate:"required,uuid"`
	Name          string `json:"maintenance_name" validate:"required,max=200"`
	PerformedBy   string `json:"maintenance_performed_by" validate:"max=200"`
	Notes         string `json:"maintenance_notes" validate:"max=1000"`
	Cost          string `json:"maintenance_cost" validate:"omitempty,numeric"`
	DateCompleted string `json:"maintenance_date_completed" validate:"required,datetime=2006-01-02"`
}

// SaveMaintenance records a maintenance entry for an asset:
// POST /api/inventory/maintenance.
func SaveMaintenance(log *slog.Logger, maintenance MaintenanceCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.SaveMaintenance"

		log := log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

		var req MaintenanceRequest
		if !decode(w, r, &req, func() {
			req.Name = strings.TrimSpace(req.Name)
			req.PerformedBy = strings.TrimSpace(req.PerformedBy)
			req.Notes = strings.TrimSpace(req.Notes)
			req.Cost = strings.TrimSpace(req.Cost)
		}) {
			return
		}

		cost := decimal.Zero
		if req.Cost != "" {
			cost, _ = decimal.NewFromString(req.Cost)
		}
		if cost.IsNegative() {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{Errors: map[string]string{"maintenance_cost": "Must not be negative"}})
			return
		}
		done, _ := time.Parse(dateLayout, req.DateCompleted)

		id, _ := team.FromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if !allowCreate(ctx, w, log, maintenance, id, "Failed to add maintenance") {
			return
		}

		entry := storage.MaintenanceEntry{
			ID:            uuid.NewString(),
			TeamID:        id.TeamID,
			AssetID:       req.AssetID,
			Name:          req.Name,
			PerformedBy:   req.PerformedBy,
			Notes:         req.Notes,
			Cost:          cost.Round(2),
			DateCompleted: done,
			CreatedBy:     id.UserID,
			CreatedAt:     time.Now().UTC(),
		}
		if err := maintenance.CreateMaintenance(ctx, entry); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "asset not found", http.StatusNotFound)
				return
			}
			log.Error("failed to add maintenance", slog.String("asset_id", req.AssetID), slog.String("error", err.Error()))
			http.Error(w, "Failed to add maintenance", http.StatusInternalServerError)
			return
		}

		log.Info("maintenance added", slog.String("maintenance_id", entry.ID), slog.String("asset_id", entry.AssetID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, entry)
	}
}

type groupLoader interface {
	GetSecurityGroup(ctx context.Context, teamID, userID string) (storage.SecurityGroup, error)
}

// allowCreate checks the create permission. On failure the response is
// already written and nothing may be stored.
func allowCreate(ctx context.Context, w http.ResponseWriter, log *slog.Logger, groups groupLoader, id team.Identity, failure string) bool {
	group, err := groups.GetSecurityGroup(ctx, id.TeamID, id.UserID)
	if err != nil {
		log.Error("failed to load security group", slog.String("error", err.Error()))
		http.Error(w, failure, http.StatusInternalServerError)
		return false
	}
	if !group.CanCreate {
		http.Error(w, "You do not have permission to create records", http.StatusForbidden)
		return false
	}
	return true
}
