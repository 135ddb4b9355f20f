package api

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type ValidationErrorResponse struct {
	Error   string            `json:"error" example:"validation failed"`
	Details []ValidationError `json:"details"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database,omitempty" example:"ok"`
}

// RedirectResponse is returned when a client must continue in a browser.
type RedirectResponse struct {
	URL string `json:"url" example:"https://sandbox.sslcommerz.com/EasyCheckOut/testcde"`
}
