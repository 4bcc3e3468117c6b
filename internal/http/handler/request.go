package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance; it is safe for concurrent use.
// Field names in error messages come from the json/form tags so they match
// what the caller actually sent.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form", "query"} {
			if name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]; name != "" && name != "-" {
				return name
			}
		}
		return strings.ToLower(fld.Name)
	})
	return v
}

// uploadRequest is the multipart form accompanying an uploaded file.
// There is deliberately no visibility field: documents are never public.
type uploadRequest struct {
	ClientID    string   `form:"client_id" validate:"required,uuid"`
	Title       string   `form:"title" validate:"required,min=3,max=200"`
	Description string   `form:"description" validate:"omitempty,max=1000"`
	Category    string   `form:"category" validate:"omitempty,oneof=contract pleading evidence correspondence invoice other"`
	Priority    string   `form:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Tags        []string `form:"tags" validate:"omitempty,dive,min=1,max=50"`
}

// listRequest is the validated query string of the list endpoints.
type listRequest struct {
	Page      int    `query:"page" validate:"min=1"`
	Limit     int    `query:"limit" validate:"min=1,max=100"`
	ClientID  string `query:"client_id" validate:"omitempty,uuid"`
	Category  string `query:"category" validate:"omitempty,oneof=contract pleading evidence correspondence invoice other"`
	Status    string `query:"status" validate:"omitempty,oneof=draft pending_review reviewed approved rejected archived"`
	Priority  string `query:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Search    string `query:"search" validate:"omitempty,max=200"`
	SortBy    string `query:"sort_by" validate:"omitempty,oneof=created_at title status priority file_size download_count"`
	SortOrder string `query:"sort_order" validate:"omitempty,oneof=asc desc"`
}

// updateRequest is the JSON body of PUT /documents/:id. Pointer fields
// distinguish "absent" (nil, leave untouched) from "explicitly cleared"
// (present but empty), closing the usual partial-update ambiguity.
type updateRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=1000"`
	Category    *string   `json:"category" validate:"omitempty,oneof=contract pleading evidence correspondence invoice other"`
	Status      *string   `json:"status" validate:"omitempty,oneof=draft pending_review reviewed approved rejected archived"`
	Priority    *string   `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Tags        *[]string `json:"tags" validate:"omitempty,dive,min=1,max=50"`
	ReviewNotes *string   `json:"review_notes" validate:"omitempty,max=1000"`
}

// statsRequest is the validated query string of GET /documents/stats.
type statsRequest struct {
	ClientID string `query:"client_id" validate:"omitempty,uuid"`
}

// checkRequest runs struct validation and converts failures into field-level
// error messages suitable for the response envelope.
func checkRequest(req any) []fieldError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []fieldError{{Field: "", Message: "invalid request"}}
	}

	out := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: fieldMessage(fe),
		})
	}
	return out
}

// fieldMessage renders one validator failure as caller-facing text.
func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
