package notification

import (
	"fmt"
	"net/http"
	"strconv"
)

// FilterRequest represents the filter parameters for listing notifications
type FilterRequest struct {
	IsRead *bool `json:"isRead,omitempty"`
}

type ErrInvalidBoolParameter struct {
	Parameter string
	Value     string
	Message   string
}

func (e ErrInvalidBoolParameter) Error() string {
	return fmt.Sprintf("invalid %s parameter: value: %s, message: %s", e.Parameter, e.Value, e.Message)
}

// ParseFilterRequest parses filter parameters from HTTP request query parameters
func ParseFilterRequest(r *http.Request) (*FilterRequest, error) {
	isReadStr := r.URL.Query().Get("isRead")

	filter := &FilterRequest{}
	if isReadStr == "" {
		return filter, nil
	}

	isRead, err := strconv.ParseBool(isReadStr)
	if err != nil {
		return nil, ErrInvalidBoolParameter{
			Parameter: "isRead",
			Value:     isReadStr,
			Message:   "must be 1, t, T, TRUE, true, True, 0, f, F, FALSE, false, False",
		}
	}
	filter.IsRead = &isRead

	return filter, nil
}
