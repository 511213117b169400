package models

// Violation is a single field-level validation failure
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
