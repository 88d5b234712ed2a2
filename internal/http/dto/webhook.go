package dto

// Every JSON response carries "ok". Failures add a short human-readable error.

type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func Error(msg string) ErrorResponse {
	return ErrorResponse{OK: false, Error: msg}
}

type WebhookResponse struct {
	OK     bool `json:"ok"`
	Stored bool `json:"stored"`
}

type HealthResponse struct {
	OK     bool    `json:"ok"`
	Uptime float64 `json:"uptime"`
	// null when storage is not configured.
	DB *bool `json:"db"`
}
