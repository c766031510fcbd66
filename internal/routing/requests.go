package routing

// ExecuteRequest is the body of an execution request. Fields are validated in
// declaration order, so an unsupported language is reported before missing
// code.
type ExecuteRequest struct {
	Language string `json:"language" validate:"required,language"`
	Code     string `json:"code" validate:"required"`
}
