package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"lpmanager/internal/ai"
	"lpmanager/internal/draft"
	"lpmanager/internal/models"
	"lpmanager/internal/prompt"
	"lpmanager/internal/sanitize"
	"lpmanager/internal/workspace"
)

// draftResponse is returned by the endpoints that change the draft.
type draftResponse struct {
	Draft    *models.TemplateRecord `json:"draft"`
	Report   *sanitize.Report       `json:"report,omitempty"`
	Provider string                 `json:"provider,omitempty"`
}

// StartDraft begins a new draft from basic info, replacing any draft in
// progress.
func (a *API) StartDraft(w http.ResponseWriter, r *http.Request) {
	var info draft.BasicInfo
	if err := decodeJSON(w, r, &info); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validateBasicInfo(&info); msg != "" {
		writeError(w, r, fmt.Errorf("%w: %s", draft.ErrInvalidInfo, msg))
		return
	}
	rec, err := draft.New(info)
	if err != nil {
		writeError(w, r, err)
		return
	}
	err = a.update(r, func(ws *workspace.Workspace) error {
		ws.SetDraft(rec)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, draftResponse{Draft: rec})
}

// GetDraft returns the draft in progress.
func (a *API) GetDraft(w http.ResponseWriter, r *http.Request) {
	ws, err := a.workspace(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec := ws.Draft()
	if rec == nil {
		writeError(w, r, draft.ErrNoDraft)
		return
	}
	writeJSON(w, http.StatusOK, draftResponse{Draft: rec})
}

// DiscardDraft drops the draft in progress, if any.
func (a *API) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	err := a.update(r, func(ws *workspace.Workspace) error {
		ws.SetDraft(nil)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DraftPrompt returns the LLM prompt for the draft as plain text. The
// prompt is deterministic for a given draft.
func (a *API) DraftPrompt(w http.ResponseWriter, r *http.Request) {
	ws, err := a.workspace(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec := ws.Draft()
	if rec == nil {
		writeError(w, r, draft.ErrNoDraft)
		return
	}
	text, err := prompt.For(rec, a.opts.MaxHTMLBytes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// DraftJSON merges a pasted LLM JSON answer into the draft. The body is
// the pasted text; code fences around it are tolerated.
func (a *API) DraftJSON(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, a.bodyLimit())
	if err != nil {
		writeError(w, r, err)
		return
	}
	obj, err := draft.ParseObject(string(body))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var rec *models.TemplateRecord
	err = a.update(r, func(ws *workspace.Workspace) error {
		rec = ws.Draft()
		if rec == nil {
			return draft.ErrNoDraft
		}
		draft.ApplyJSON(rec, obj)
		ws.SetDraft(rec)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draftResponse{Draft: rec})
}

// DraftHTML stores a pasted LLM HTML document on the draft after checking
// and sanitizing it. Warnings (such as embedded base64 images) are
// returned in the report without blocking.
func (a *API) DraftHTML(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, a.bodyLimit())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var (
		rec    *models.TemplateRecord
		report sanitize.Report
	)
	err = a.update(r, func(ws *workspace.Workspace) error {
		rec = ws.Draft()
		if rec == nil {
			return draft.ErrNoDraft
		}
		var err error
		report, err = draft.ApplyHTML(rec, string(body), a.opts.MaxHTMLBytes)
		if err != nil {
			return err
		}
		ws.SetDraft(rec)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draftResponse{Draft: rec, Report: &report})
}

// GenerateDraft asks the configured LLM provider for the draft content and
// applies the answer like a paste. The provider call runs outside the
// workspace lock; the answer is applied to the draft current at that time.
func (a *API) GenerateDraft(w http.ResponseWriter, r *http.Request) {
	if a.aiRegistry == nil || !a.aiRegistry.Enabled() {
		writeError(w, r, fmt.Errorf("%w: no LLM provider configured", errUnavailable))
		return
	}
	ws, err := a.workspace(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec := ws.Draft()
	if rec == nil {
		writeError(w, r, draft.ErrNoDraft)
		return
	}
	userPrompt, err := prompt.For(rec, a.opts.MaxHTMLBytes)
	if err != nil {
		writeError(w, r, err)
		return
	}

	answer, err := a.aiRegistry.Generate(r.Context(), ai.SystemPrompt(rec.Format), userPrompt)
	if err != nil {
		slog.Warn("draft generation failed", "provider", a.aiRegistry.ActiveName(), "error", err)
		writeError(w, r, err)
		return
	}

	resp := draftResponse{Provider: a.aiRegistry.ActiveName()}
	format := rec.Format
	err = a.update(r, func(ws *workspace.Workspace) error {
		current := ws.Draft()
		if current == nil {
			return draft.ErrNoDraft
		}
		if format == models.FormatHTML {
			report, err := draft.ApplyHTML(current, answer, a.opts.MaxHTMLBytes)
			if err != nil {
				return err
			}
			resp.Report = &report
		} else {
			obj, err := draft.ParseObject(answer)
			if err != nil {
				return err
			}
			draft.ApplyJSON(current, obj)
		}
		ws.SetDraft(current)
		resp.Draft = current
		return nil
	})
	if err != nil {
		// A provider answer that does not parse is the provider's fault.
		if errors.Is(err, draft.ErrNotJSONObject) || errors.Is(err, sanitize.ErrNotHTMLDocument) {
			err = fmt.Errorf("%w: provider answer unusable: %v", errBadGateway, err)
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// commitRequest is the body of CommitDraft.
type commitRequest struct {
	Approve bool `json:"approve"`
}

// CommitDraft validates the draft and stores it in the workspace, as an
// approved template when requested. The draft is cleared on success.
func (a *API) CommitDraft(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, maxRequestBytes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req commitRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err))
			return
		}
	}

	var saved *models.TemplateRecord
	err = a.update(r, func(ws *workspace.Workspace) error {
		var err error
		saved, err = draft.Commit(ws.Templates, ws.Draft(), req.Approve)
		if err != nil {
			return err
		}
		ws.SetDraft(nil)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}
