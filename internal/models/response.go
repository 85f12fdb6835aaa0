package models

// Response is the envelope every JSON api endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details string      `json:"details,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(data interface{}, message string) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(err string) Response {
	return Response{
		Success: false,
		Error:   err,
	}
}

// Validasyon hataları için detaylı response
func ValidationErrorResponse(details string) Response {
	return Response{
		Success: false,
		Error:   "Invalid input",
		Details: details,
	}
}

// WebhookUserResponse is returned to the identity provider once a user
// lifecycle event has been applied.
type WebhookUserResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}
