// Package workspace keeps one template store and one draft per browser
// session. Sessions never see each other's records.
package workspace

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"lpmanager/internal/models"
	"lpmanager/internal/store"
)

// Workspace is the state of one session.
type Workspace struct {
	ID        string
	Templates *store.TemplateStore

	// mu serializes mutation sequences (see Do).
	mu sync.Mutex

	draftMu sync.RWMutex
	draft   *models.TemplateRecord

	lastUsed time.Time // guarded by Manager.mu
}

func newWorkspace(id string) *Workspace {
	return &Workspace{ID: id, Templates: store.NewTemplateStore()}
}

// Do runs fn while holding the workspace lock, so concurrent requests of
// one session cannot interleave their read-modify-write sequences.
func (w *Workspace) Do(fn func(*Workspace) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fn(w)
}

// Draft returns a copy of the draft in progress, or nil.
func (w *Workspace) Draft() *models.TemplateRecord {
	w.draftMu.RLock()
	defer w.draftMu.RUnlock()
	if w.draft == nil {
		return nil
	}
	return w.draft.Clone()
}

// SetDraft replaces the draft with a copy of rec. A nil rec discards it.
func (w *Workspace) SetDraft(rec *models.TemplateRecord) {
	w.draftMu.Lock()
	defer w.draftMu.Unlock()
	if rec == nil {
		w.draft = nil
		return
	}
	w.draft = rec.Clone()
}

// state is the persisted form of a workspace.
type state struct {
	Templates []models.TemplateRecord `json:"templates"`
	Draft     *models.TemplateRecord  `json:"draft,omitempty"`
}

func (w *Workspace) marshal() ([]byte, error) {
	st := state{
		Templates: w.Templates.List(store.Filter{}),
		Draft:     w.Draft(),
	}
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("marshal workspace %s: %w", w.ID, err)
	}
	return data, nil
}

func (w *Workspace) unmarshal(data []byte) error {
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("unmarshal workspace %s: %w", w.ID, err)
	}
	if err := w.Templates.Replace(st.Templates); err != nil {
		return fmt.Errorf("restore workspace %s: %w", w.ID, err)
	}
	w.SetDraft(st.Draft)
	return nil
}
