package routing

import (
	"context"
	"encoding/json"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"code-execution-sandbox/internal/memory"
	"code-execution-sandbox/internal/sandbox"
	"code-execution-sandbox/internal/validation"
)

const (
	requiredMessage    = "Code and language are required"
	unsupportedMessage = "Unsupported language"
)

type ExecuteHandler struct {
	Runner         sandbox.Runner
	Translator     ut.Translator
	Validator      *validator.Validate
	MaxRequestSize memory.Memory
}

func (h ExecuteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxRequestSize.Bytes())

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var request ExecuteRequest

	if err := dec.Decode(&request); err != nil {
		handleDecodeError(w, err, h.MaxRequestSize)
		return
	}

	if err := h.Validator.Struct(request); err != nil {
		handleJSONResponse(w, ErrorResponse{
			Error:  summarizeValidationError(err),
			Errors: validation.TranslateError(err, h.Translator),
		}, http.StatusBadRequest)

		return
	}

	// A client going away does not stop the execution, it is bound by its
	// own time limit and always cleans up after itself.
	ctx := context.WithoutCancel(r.Context())

	response, err := h.Runner.Execute(ctx, &sandbox.Request{
		SourceCode: request.Code,
		Language:   request.Language,
	})

	switch {
	case errors.Is(err, sandbox.ErrUnsupportedLanguage):
		handleErrorResponse(w, unsupportedMessage, http.StatusBadRequest)
	case errors.Is(err, sandbox.ErrMissingLanguage), errors.Is(err, sandbox.ErrMissingSourceCode):
		handleErrorResponse(w, requiredMessage, http.StatusBadRequest)
	case err != nil:
		log.Err(err).Str("language", request.Language).Msg("failed to execute request")
		handleErrorResponse(w, "failed to execute request", http.StatusInternalServerError)
	default:
		handleJSONResponse(w, response, http.StatusOK)
	}
}

// summarizeValidationError describes the first field that failed validation.
func summarizeValidationError(err error) string {
	validationErrors := validator.ValidationErrors{}

	if errors.As(err, &validationErrors) && len(validationErrors) > 0 && validationErrors[0].Tag() == "language" {
		return unsupportedMessage
	}

	return requiredMessage
}
