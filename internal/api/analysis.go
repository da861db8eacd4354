package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dodai/navigator/internal/services"
	"github.com/dodai/navigator/internal/utils"
)

type analyzeRequest struct {
	Prompt string `json:"prompt"`
	// Accepted for compatibility; never acted on.
	AddContextFromInternet bool `json:"add_context_from_internet"`
}

type analyzeResponse struct {
	Analysis   string          `json:"analysis"`
	Source     services.Source `json:"source"`
	ShareToken string          `json:"share_token,omitempty"`
}

// POST /api/ai/analyze. Only a malformed body is rejected; every remote
// failure is answered with the fallback text.
func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	var in analyzeRequest
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err, utils.MsgInternalError)
		return
	}
	a := h.analyzer.Analyze(r.Context(), in.Prompt)
	h.writeJSON(w, http.StatusOK, analyzeResponse{Analysis: a.Text, Source: a.Source})
}

// POST /api/surveys/{id}/analysis analyses a stored response and keeps the text.
func (h *Handler) analyzeSurvey(w http.ResponseWriter, r *http.Request) {
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
	a := h.analyzer.AnalyzeResponse(r.Context(), resp)
	if err := h.surveys.SaveAnalysis(r.Context(), id, a.Text); err != nil {
		h.writeError(w, r, err, utils.MsgFetchFailed)
		return
	}
	out := analyzeResponse{Analysis: a.Text, Source: a.Source}
	if h.shares != nil && h.shares.Enabled() {
		token, err := h.shares.Issue(id)
		if err != nil {
			h.log.Warn("issue share token", zap.Int64("id", id), zap.Error(err))
		} else {
			out.ShareToken = token
		}
	}
	h.writeJSON(w, http.StatusOK, out)
}

// GET /api/shared/{token}
func (h *Handler) shared(w http.ResponseWriter, r *http.Request) {
	if h.shares == nil {
		h.writeError(w, r, services.ErrShareDisabled, utils.MsgFetchFailed)
		return
	}
	sa, err := h.shares.Resolve(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		h.writeError(w, r, err, utils.MsgFetchFailed)
		return
	}
	h.writeJSON(w, http.StatusOK, sa)
}
