package clients

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fridaygt/fridaygt/common/models"
)

// APIError is a non-2xx response from the roster API
type APIError struct {
	Status  int
	Reason  string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d %s: %s", e.Status, e.Reason, e.Message)
	}
	return fmt.Sprintf("api error %d %s", e.Status, e.Reason)
}

// ReasonOf returns the API reason carried by err, or "" when err is not an APIError
func ReasonOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Reason
	}
	return ""
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload models.ErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		apiErr.Reason = payload.Error
		apiErr.Message = payload.Message
		return apiErr
	}

	apiErr.Reason = http.StatusText(resp.StatusCode)
	apiErr.Message = string(body)
	return apiErr
}
