package routing

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"code-execution-sandbox/internal/memory"
	"code-execution-sandbox/internal/metrics"
	"code-execution-sandbox/internal/sandbox"
)

// Executions is what the API needs from the execution manager.
type Executions interface {
	sandbox.Runner
	InFlightCounter
}

type Config struct {
	Executions Executions
	Translator ut.Translator
	Validator  *validator.Validate

	MaxRequestSize memory.Memory
	AllowedOrigins []string

	// Where access logs are written, they are discarded when nil.
	AccessLog io.Writer
}

// NewRouter builds the complete HTTP API of the sandbox including its
// middleware.
func NewRouter(config *Config) http.Handler {
	r := mux.NewRouter()
	r.Use(metrics.Middleware)

	// mux skips Use middleware when no route matches.
	r.NotFoundHandler = metrics.Middleware(http.HandlerFunc(handleNotFound))
	r.MethodNotAllowedHandler = metrics.Middleware(http.HandlerFunc(handleMethodNotAllowed))

	r.Handle("/api/execute", ExecuteHandler{
		Runner:         config.Executions,
		Translator:     config.Translator,
		Validator:      config.Validator,
		MaxRequestSize: config.MaxRequestSize,
	}).Methods(http.MethodPost)

	r.HandleFunc("/api/languages", HandleGetLanguages).Methods(http.MethodGet)
	r.HandleFunc("/api/languages/{lang}/template", HandleGetLanguageTemplate).Methods(http.MethodGet)
	r.Handle("/api/health", HealthHandler{Executions: config.Executions}).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	accessLog := config.AccessLog
	if accessLog == nil {
		accessLog = io.Discard
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins(config.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	return handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{}))(
		handlers.LoggingHandler(accessLog, cors(handlers.CompressHandler(r))),
	)
}

// recoveryLogger writes recovered panics to the global logger.
type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	log.Error().Msg(strings.TrimSpace(fmt.Sprintln(v...)))
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	handleErrorResponse(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}

func handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	handleErrorResponse(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

func handleDecodeError(w http.ResponseWriter, err error, limit memory.Memory) {
	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError

	switch {
	case errors.As(err, &syntaxError):
		msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
		handleErrorResponse(w, msg, http.StatusBadRequest)

	case errors.Is(err, io.ErrUnexpectedEOF):
		handleErrorResponse(w, "Request body contains badly-formed JSON", http.StatusBadRequest)

	case errors.As(err, &unmarshalTypeError):
		msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
		handleErrorResponse(w, msg, http.StatusBadRequest)

	case strings.HasPrefix(err.Error(), "json: unknown field "):
		fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
		msg := fmt.Sprintf("Request body contains unknown field %s", fieldName)
		handleErrorResponse(w, msg, http.StatusBadRequest)

	case errors.Is(err, io.EOF):
		handleErrorResponse(w, "Request body must not be empty", http.StatusBadRequest)

	case errors.As(err, &maxBytesError):
		msg := fmt.Sprintf("Request body must not be larger than %s", limit)
		handleErrorResponse(w, msg, http.StatusRequestEntityTooLarge)

	default:
		log.Err(err).Msg("failed to decode request")
		handleErrorResponse(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
