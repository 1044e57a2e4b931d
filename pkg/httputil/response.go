package httputil

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/medbook/booking-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondWithSuccess sends a 200 success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   data,
	})
}

// RespondWithCreated sends a 201 success response
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Status: "success",
		Data:   data,
	})
}

// RespondWithNoContent sends an empty 204 response
func RespondWithNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// RespondWithError sends an error response, mapping AppError codes to
// their HTTP status and hiding internals behind a generic message.
func RespondWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	if appErr, ok := errors.As(err); ok {
		status = appErr.StatusCode()
		message = appErr.Message
	}

	_ = c.Error(err)
	c.JSON(status, Response{
		Status:  "error",
		Message: message,
	})
}

// RespondWithValidationError sends a 400 with the binding error message.
// Field-level validation failures are collapsed into a readable summary.
func RespondWithValidationError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, Response{
		Status:  "error",
		Message: validationMessage(err),
	})
}

func validationMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		switch e.Tag() {
		case "required":
			parts = append(parts, e.Field()+" is required")
		case "email":
			parts = append(parts, e.Field()+" must be a valid email")
		case "min":
			parts = append(parts, e.Field()+" is too short")
		case "oneof":
			parts = append(parts, e.Field()+" must be one of: "+e.Param())
		case "datetime":
			parts = append(parts, e.Field()+" must match format "+e.Param())
		default:
			parts = append(parts, e.Field()+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}
