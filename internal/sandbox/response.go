package sandbox

// Response is the single result of an execution. Exactly one of Output and
// Error is set: Output when the program succeeded, Error otherwise.
type Response struct {
	Succeeded bool    `json:"success"`
	Output    *string `json:"output"`
	Error     *string `json:"error"`

	// The classification of the outcome, kept off the wire.
	Status ExecutionStatus `json:"-"`
}

// NormalizeResponse maps the terminal status of an execution and the text it
// captured onto a Response. Only the text belonging to the status is kept, so
// a failure never leaks output and a success never carries an error.
func NormalizeResponse(status ExecutionStatus, output, message string) *Response {
	if status == Finished {
		return &Response{
			Succeeded: true,
			Output:    &output,
			Status:    status,
		}
	}

	if message == "" {
		message = status.Description()
	}

	return &Response{
		Succeeded: false,
		Error:     &message,
		Status:    status,
	}
}
