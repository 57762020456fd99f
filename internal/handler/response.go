package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIError is the envelope returned for every error response. Success
// responses carry the entity (or a plain message map) directly, the shape
// pollers and the dashboard already consume.
type APIError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, APIError{Status: "error", Message: message})
}
