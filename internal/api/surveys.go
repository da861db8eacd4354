package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dodai/navigator/internal/models"
	"github.com/dodai/navigator/internal/search"
	"github.com/dodai/navigator/internal/services"
	"github.com/dodai/navigator/internal/utils"
)

// POST /api/surveys
func (h *Handler) createSurvey(w http.ResponseWriter, r *http.Request) {
	var in models.SurveyResponse
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err, utils.MsgCreateFailed)
		return
	}
	in.ID = 0
	id, err := h.surveys.Create(r.Context(), &in)
	if err != nil {
		h.writeError(w, r, err, utils.MsgCreateFailed)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"id": id, "message": msg(r, utils.MsgSurveyCreated)})
}

// GET /api/surveys?limit&offset
func (h *Handler) listSurveys(w http.ResponseWriter, r *http.Request) {
	limit, hasLimit, err := queryInt(r, "limit")
	if err != nil {
		h.writeError(w, r, err, utils.MsgListFailed)
		return
	}
	offset, _, err := queryInt(r, "offset")
	if err != nil {
		h.writeError(w, r, err, utils.MsgListFailed)
		return
	}
	opts := services.ListOptions{Offset: offset}
	if hasLimit {
		opts.Limit = &limit
	}
	rs, err := h.surveys.List(r.Context(), opts)
	if err != nil {
		h.writeError(w, r, err, utils.MsgListFailed)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"surveys": rs, "total": len(rs)})
}

func surveyID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, services.NewInvalidError("survey id must be an integer")
	}
	return id, nil
}

// GET /api/surveys/{id}
func (h *Handler) getSurvey(w http.ResponseWriter, r *http.Request) {
	id, err := surveyID(r)
	if err != nil {
		h.writeError(w, r, err, utils.MsgFetchFailed)
		return
	}
	resp, err := h.surveys.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, utils.MsgFetchFailed)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// GET /api/surveys/stats
func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.surveys.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, err, utils.MsgStatsFailed)
		return
	}
	h.writeJSON(w, http.StatusOK, st)
}

// GET /api/surveys/insights
func (h *Handler) insights(w http.ResponseWriter, r *http.Request) {
	in, err := h.surveys.Insights(r.Context())
	if err != nil {
		h.writeError(w, r, err, utils.MsgStatsFailed)
		return
	}
	h.writeJSON(w, http.StatusOK, in)
}

// GET /api/surveys/export?format=wide|long
func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	res, err := h.surveys.Export(r.Context(), services.ExportParams{Format: r.URL.Query().Get("format")})
	if err != nil {
		h.writeError(w, r, err, utils.MsgListFailed)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+res.Filename)
	_, _ = w.Write(res.Data)
}

// GET /api/surveys/search?q=&limit=
func (h *Handler) searchSurveys(w http.ResponseWriter, r *http.Request) {
	if h.search == nil {
		h.writeDetail(w, http.StatusNotFound, msg(r, utils.MsgSearchDisabled))
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		h.writeDetail(w, http.StatusUnprocessableEntity, msg(r, utils.MsgSearchQueryNeeded))
		return
	}
	limit, _, err := queryInt(r, "limit")
	if err != nil {
		h.writeError(w, r, err, utils.MsgListFailed)
		return
	}
	if limit < 0 {
		h.writeError(w, r, services.NewInvalidError("limit must not be negative"), utils.MsgListFailed)
		return
	}
	hits, err := h.search.Search(q, limit)
	if err != nil {
		h.writeError(w, r, err, utils.MsgListFailed)
		return
	}
	if hits == nil {
		hits = []search.Result{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"results": hits, "total": len(hits)})
}
