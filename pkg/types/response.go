package types

// ErrorEnvelope is the JSON body written for every API error.
type ErrorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ActionResult is the body of form-style JSON actions such as review submission.
type ActionResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
