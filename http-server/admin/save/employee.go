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

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/middleware/team"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

type EmployeeCreator interface {
	GetSecurityGroup(ctx context.Context, teamID, userID string) (storage.SecurityGroup, error)
	EmployeeExists(ctx context.Context, teamID, hrisNumber string) (bool, error)
	CreateEmployee(ctx context.Context, e storage.Employee) error
}

type EmployeeRequest struct {
	HRISNumber   string `json:"hris_number" validate:"required,max=50"`
	FirstName    string `json:"first_name" validate:"required,max=100"`
	LastName     string `json:"last_name" validate:"required,max=100"`
	JobTitle     string `json:"job_title" validate:"max=100"`
	SiteID       string `json:"site_id" validate:"omitempty,uuid"`
	DepartmentID string `json:"department_id" validate:"omitempty,uuid"`
}

// SaveEmployee adds a team employee: POST /api/inventory/employees. A taken
// HRIS number is rejected before the write.
func SaveEmployee(log *slog.Logger, employees EmployeeCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.SaveEmployee"

		log := log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

		var req EmployeeRequest
		if !decode(w, r, &req, func() {
			req.HRISNumber = strings.ToUpper(strings.TrimSpace(req.HRISNumber))
			req.FirstName = strings.TrimSpace(req.FirstName)
			req.LastName = strings.TrimSpace(req.LastName)
			req.JobTitle = strings.TrimSpace(req.JobTitle)
		}) {
			return
		}

		id, _ := team.FromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if !allowCreate(ctx, w, log, employees, id, "Failed to create employee") {
			return
		}

		exists, err := employees.EmployeeExists(ctx, id.TeamID, req.HRISNumber)
		if err != nil {
			log.Error("failed to check hris number", slog.String("error", err.Error()))
			http.Error(w, "Failed to create employee", http.StatusInternalServerError)
			return
		}
		if exists {
			duplicateHRIS(w, r)
			return
		}

		employee := storage.Employee{
			ID:           uuid.NewString(),
			TeamID:       id.TeamID,
			HRISNumber:   req.HRISNumber,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			JobTitle:     req.JobTitle,
			SiteID:       req.SiteID,
			DepartmentID: req.DepartmentID,
			CreatedAt:    time.Now().UTC(),
		}
		if err := employees.CreateEmployee(ctx, employee); err != nil {
			if errors.Is(err, storage.ErrDuplicateName) {
				duplicateHRIS(w, r)
				return
			}
			log.Error("failed to create employee", slog.String("error", err.Error()))
			http.Error(w, "Failed to create employee", http.StatusInternalServerError)
			return
		}

		log.Info("employee created", slog.String("employee_id", employee.ID), slog.String("team_id", employee.TeamID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, employee)
	}
}

func duplicateHRIS(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusConflict)
	render.JSON(w, r, ErrorResponse{Errors: map[string]string{"hris_number": "HRIS number already exists"}})
}
