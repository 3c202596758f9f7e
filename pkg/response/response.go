package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/iomp-platform/iomp-api/pkg/errors"
)

// FieldError tags a validation failure with the offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// JSON sends a success envelope. The payload fields are merged into the
// envelope next to the success flag, so callers choose the resource key
// per endpoint ("user", "event", "classrooms", ...).
func JSON(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// OK responds with HTTP 200.
func OK(c *gin.Context, payload gin.H) {
	JSON(c, http.StatusOK, payload)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, payload gin.H) {
	JSON(c, http.StatusCreated, payload)
}

// Error sends a failure envelope derived from the typed error.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.JSON(appErr.Status, gin.H{"success": false, "message": appErr.Message})
}

// ValidationErrors sends a 400 with a field-tagged error list.
func ValidationErrors(c *gin.Context, errs []FieldError) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": errs})
}
