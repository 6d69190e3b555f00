package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse estado del servicio y de la carga inicial.
type HealthResponse struct {
	Status     string            `json:"status"`
	Service    string            `json:"service"`
	Loading    bool              `json:"loading"`
	LoadErrors map[string]string `json:"load_errors,omitempty"`
}
