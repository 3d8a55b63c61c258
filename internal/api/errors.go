package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/forkful/forkful-backend/internal/service"
	"github.com/forkful/forkful-backend/internal/validation"
)

// renderError maps domain errors to their caller-facing responses. All
// four domain kinds are client errors; anything else is a 500 with no
// internals leaked.
func renderError(c *gin.Context, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, verr.Fields)
	case errors.Is(err, service.ErrRecipeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "recipe not found"})
	case errors.Is(err, service.ErrNotAuthor):
		c.JSON(http.StatusForbidden, gin.H{"detail": service.ErrNotAuthor.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// bindingErrorFields flattens gin binding failures into the same
// field→message shape the domain validator produces.
func bindingErrorFields(err error) map[string]string {
	fields := map[string]string{}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			field := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				fields[field] = "this field is required"
			case "email":
				fields[field] = "enter a valid email address"
			case "min":
				fields[field] = "this value is too short"
			default:
				fields[field] = "invalid value"
			}
		}
		return fields
	}

	fields["non_field_errors"] = "malformed request body"
	return fields
}
