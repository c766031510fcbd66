package routing

import (
	"net/http"
)

// InFlightCounter reports how many executions are currently running.
type InFlightCounter interface {
	InFlight() int64
}

type HealthHandler struct {
	Executions InFlightCounter
}

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	handleJSONResponse(w, HealthResponse{
		Status:   "OK",
		Message:  "Code execution sandbox is running",
		InFlight: h.Executions.InFlight(),
	}, http.StatusOK)
}
