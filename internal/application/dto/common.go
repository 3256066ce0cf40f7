package dto

// ErrorResponse cuerpo de error HTTP. Fields lleva los errores de validación campo a campo.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}
