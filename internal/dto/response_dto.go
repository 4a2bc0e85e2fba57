package dto

// APIResponse is the uniform success envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the uniform failure envelope.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func OK(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data}
}

func OKWithMessage(message string, data interface{}) APIResponse {
	return APIResponse{Success: true, Message: message, Data: data}
}

func Error(message string, details ...string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message, Details: details}
}
