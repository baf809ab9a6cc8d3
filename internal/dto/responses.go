package dto

// ErrorResponse — стандартный формат ошибки API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse — стандартный формат успешного ответа с сообщением.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// RejectionResponse — формат ответа при отклонении отчёта классификатором.
type RejectionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
