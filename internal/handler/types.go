package handler

// * APIResponse is the success side of the response envelope, failures are
// * written by errors.WriteHTTPError
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

type HealthStatus struct {
	Status string `json:"status"`
}
