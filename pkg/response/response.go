package response

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"hostelsaathi/internal/apperr"
)

// Envelope is the uniform success body returned by every endpoint.
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// ErrorEnvelope is the uniform failure body.
type ErrorEnvelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// OK writes a success envelope with the given status.
func OK(c echo.Context, status int, data interface{}, message string) error {
	return c.JSON(status, Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// Fail converts err into the failure envelope. Unknown error types are
// reported as 500 with their message attached.
func Fail(c echo.Context, err error) error {
	status := apperr.StatusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		if _, ok := err.(*apperr.Error); !ok {
			message = "Internal server error: " + err.Error()
		}
	}
	return c.JSON(status, ErrorEnvelope{
		Success:   false,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
