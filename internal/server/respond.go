package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tartampluch/birthday-insights/internal/config"
	"github.com/tartampluch/birthday-insights/internal/engine"
	"github.com/tartampluch/birthday-insights/internal/onthisday"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.WriteHeader(status)
	// Headers are sent; an encoding failure can only be logged.
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeFailure maps domain errors to HTTP statuses.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := config.ErrInternal
	var qe *queryError
	switch {
	case errors.As(err, &qe):
		status, msg = http.StatusBadRequest, qe.msg
	case errors.Is(err, engine.ErrInvalidRange):
		status, msg = http.StatusUnprocessableEntity, config.ErrFutureBirth
	case errors.Is(err, onthisday.ErrInvalidDate):
		status, msg = http.StatusBadRequest, config.ErrInvalidDate
	case errors.Is(err, onthisday.ErrUpstream):
		status, msg = http.StatusBadGateway, config.ErrUpstream
	}

	if status >= http.StatusInternalServerError {
		slog.Error(config.MsgRequestFailed,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyURL, r.URL.Path,
			config.LogKeyError, err,
		)
	}
	writeError(w, status, msg)
}
