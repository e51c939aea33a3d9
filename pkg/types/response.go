package types

// Every public response carries success + message so the website can display it directly.

type APIError struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Error   APIError `json:"error"`
}

type MessageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
