package save

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/middleware/team"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

type CustomFieldCreator interface {
	GetSecurityGroup(ctx context.Context, teamID, userID string) (storage.SecurityGroup, error)
	CustomFieldExists(ctx context.Context, teamID, name string) (bool, error)
	CreateCustomField(ctx context.Context, f storage.CustomField) error
}

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type CustomFieldRequest struct {
	Name        string   `json:"field_name" validate:"required,max=100"`
	Type        string   `json:"field_type" validate:"required,oneof=TEXT NUMBER DATE DROPDOWN"`
	IsRequired  bool     `json:"field_is_required"`
	CategoryIDs []string `json:"category_ids" validate:"dive,uuid"`
}

// ErrorResponse carries field level messages keyed by JSON field name.
type ErrorResponse struct {
	Errors map[string]string `json:"errors"`
}

// SaveCustomField creates a team custom field: POST /api/inventory/custom-fields.
// The permission and duplicate-name checks run before the write.
func SaveCustomField(log *slog.Logger, fields CustomFieldCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.SaveCustomField"

		log := log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

		var req CustomFieldRequest
		if !decode(w, r, &req, func() { req.Name = strings.TrimSpace(req.Name) }) {
			return
		}

		id, _ := team.FromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		group, err := fields.GetSecurityGroup(ctx, id.TeamID, id.UserID)
		if err != nil {
			log.Error("failed to load security group", slog.String("error", err.Error()))
			http.Error(w, "Failed to create custom field", http.StatusInternalServerError)
			return
		}
		if !group.CanCreate {
			http.Error(w, "You do not have permission to create custom fields", http.StatusForbidden)
			return
		}

		exists, err := fields.CustomFieldExists(ctx, id.TeamID, req.Name)
		if err != nil {
			log.Error("failed to check custom field name", slog.String("error", err.Error()))
			http.Error(w, "Failed to create custom field", http.StatusInternalServerError)
			return
		}
		if exists {
			duplicate(w, r)
			return
		}

		field := storage.CustomField{
			ID:          uuid.NewString(),
			TeamID:      id.TeamID,
			Name:        req.Name,
			Type:        req.Type,
			IsRequired:  req.IsRequired,
			CategoryIDs: req.CategoryIDs,
			CreatedAt:   time.Now().UTC(),
		}
		if err := fields.CreateCustomField(ctx, field); err != nil {
			if errors.Is(err, storage.ErrDuplicateName) {
				duplicate(w, r)
				return
			}
			log.Error("failed to create custom field", slog.String("error", err.Error()))
			http.Error(w, "Failed to create custom field", http.StatusInternalServerError)
			return
		}

		log.Info("custom field created", slog.String("field_id", field.ID), slog.String("team_id", field.TeamID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, field)
	}
}

func duplicate(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusConflict)
	render.JSON(w, r, ErrorResponse{Errors: map[string]string{"field_name": "Custom field name already exists"}})
}

// decode reads the JSON body into dst, runs normalize and validates the
// result. On failure the response is already written.
func decode(w http.ResponseWriter, r *http.Request, dst any, normalize func()) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return false
	}
	if normalize != nil {
		normalize()
	}
	if err := validate.Struct(dst); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrors(err))
		return false
	}
	return true
}

func validationErrors(err error) ErrorResponse {
	out := ErrorResponse{Errors: map[string]string{}}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.Errors["body"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		key, _, _ := strings.Cut(fe.Field(), "[")
		switch fe.Tag() {
		case "required":
			out.Errors[key] = "This field is required"
		case "max":
			out.Errors[key] = "Must be at most " + fe.Param() + " characters"
		case "oneof":
			out.Errors[key] = "Must be one of " + fe.Param()
		case "gt", "gte", "lte":
			out.Errors[key] = "Out of range"
		case "datetime":
			out.Errors[key] = "Must be a date in YYYY-MM-DD format"
		case "numeric":
			out.Errors[key] = "Must be a number"
		default:
			out.Errors[key] = "Invalid value"
		}
	}
	return out
}
