package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/dodai/navigator/internal/middleware"
	"github.com/dodai/navigator/internal/services"
	"github.com/dodai/navigator/internal/utils"
)

// maxBodyBytes bounds request bodies; a full submission is a few KB.
const maxBodyBytes = 1 << 20

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Warn("encode response", zap.Error(err))
	}
}

func (h *Handler) writeDetail(w http.ResponseWriter, status int, detail string) {
	h.writeJSON(w, status, map[string]string{"detail": detail})
}

func msg(r *http.Request, key string) string {
	return utils.T(middleware.LocaleFromContext(r.Context()), key)
}

// writeError maps service errors onto the façade's status codes. Anything
// unclassified is a 500 whose detail is prefixed with the message for failKey
// and carries the error text.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, failKey string) {
	switch {
	case errors.Is(err, services.ErrSurveyNotFound):
		h.writeDetail(w, http.StatusNotFound, msg(r, utils.MsgSurveyNotFound))
		return
	case errors.Is(err, services.ErrShareDisabled):
		h.writeDetail(w, http.StatusNotFound, msg(r, utils.MsgShareDisabled))
		return
	case errors.Is(err, services.ErrInvalidShareToken):
		h.writeDetail(w, http.StatusUnauthorized, msg(r, utils.MsgShareInvalid))
		return
	case errors.Is(err, services.ErrNoAnalysis):
		h.writeDetail(w, http.StatusNotFound, msg(r, utils.MsgAnalysisMissing))
		return
	}
	if se, ok := services.AsServiceError(err); ok {
		switch se.Code {
		case services.ErrorInvalid:
			h.writeDetail(w, http.StatusUnprocessableEntity, msg(r, utils.MsgInvalidRequest)+": "+se.Message)
			return
		case services.ErrorNotFound:
			h.writeDetail(w, http.StatusNotFound, se.Message)
			return
		case services.ErrorUnauthorized:
			h.writeDetail(w, http.StatusUnauthorized, se.Message)
			return
		}
	}
	h.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	h.writeDetail(w, http.StatusInternalServerError, msg(r, failKey)+": "+err.Error())
}

// decodeJSON reads one JSON value from the body. Shape errors are invalid
// requests.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return services.NewInvalidError("request body required")
		}
		return services.NewInvalidError(err.Error())
	}
	return nil
}

// queryInt parses an optional integer query parameter. ok is false when the
// parameter is missing or empty.
func queryInt(r *http.Request, name string) (n int, ok bool, err error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, false, nil
	}
	n, err = strconv.Atoi(v)
	if err != nil {
		return 0, false, services.NewInvalidError(name + " must be an integer")
	}
	return n, true, nil
}
