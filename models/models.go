package models

// StudentRecord is one entry of the marks dataset
type StudentRecord struct {
	Name  string `json:"name"`  // Student name, matched case-insensitively
	Marks int    `json:"marks"` // Numeric mark
}

// MarksResponse is the body of a successful lookup.
// A nil entry means no student matched the requested name.
type MarksResponse struct {
	Marks []*int `json:"marks"`
}

// ErrorResponse carries a client-facing error message in the body
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a plain informational payload
type MessageResponse struct {
	Message string `json:"message"`
}
