package api

import "encoding/json"

// ListingsResponse from GET /v1/cryptocurrency/listings/historical.
// Data is kept undecoded so records can be parsed in key order.
type ListingsResponse struct {
	Data   json.RawMessage `json:"data"`
	Status json.RawMessage `json:"status"` // opaque; see errorMessage
}

// errorMessage returns status.error_message, or "" if the status block is
// absent or not shaped as expected.
func (r ListingsResponse) errorMessage() string {
	var status struct {
		ErrorMessage json.RawMessage `json:"error_message"`
	}
	if err := json.Unmarshal(r.Status, &status); err != nil {
		return ""
	}
	var msg string
	if err := json.Unmarshal(status.ErrorMessage, &msg); err != nil {
		return ""
	}
	return msg
}
