package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/diewo77/salescrm/gate"
	"github.com/diewo77/salescrm/httpx"
	"github.com/diewo77/salescrm/i18n"
	"github.com/diewo77/salescrm/internal/catalog"
	"github.com/diewo77/salescrm/internal/config"
	"github.com/diewo77/salescrm/internal/policy"
	"github.com/diewo77/salescrm/internal/records"
	"github.com/diewo77/salescrm/internal/table"
	"github.com/sirupsen/logrus"
)

// TableHandler drives the per-user grid. Every mutation answers with the
// refreshed view.
type TableHandler struct {
	sessions *table.Sessions
	gate     *policy.AuthGate
	logger   logrus.FieldLogger
}

func NewTableHandler(sessions *table.Sessions, gate *policy.AuthGate, logger logrus.FieldLogger) *TableHandler {
	return &TableHandler{sessions: sessions, gate: gate, logger: logger}
}

func (h *TableHandler) state(r *http.Request) *table.State {
	return h.sessions.Get(currentUser(r))
}

// allowed checks action on the grid's current entity.
func (h *TableHandler) allowed(w http.ResponseWriter, r *http.Request, st *table.State, action gate.Action) bool {
	res := st.Entity().Resource()
	if !h.gate.Can(r.Context(), action, res) {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", map[string]string{
			"permission": string(gate.NewPermission(res, action)),
		})
		return false
	}
	return true
}

func (h *TableHandler) render(w http.ResponseWriter, r *http.Request, st *table.State) {
	v, err := st.View(r.Context())
	if err != nil {
		internalError(w, r, h.logger, "handlers", "TableHandler.render", "load_failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, v)
}

// View reloads the rows and answers the current page.
func (h *TableHandler) View(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)
	if !h.allowed(w, r, st, gate.ActionList) {
		return
	}
	st.Invalidate()
	h.render(w, r, st)
}

func (h *TableHandler) SetEntity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Entity string `json:"entity"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	e, err := catalog.ParseEntity(req.Entity)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_entity", nil)
		return
	}
	if !h.gate.Can(r.Context(), gate.ActionList, e.Resource()) {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	st := h.state(r)
	st.SetEntity(e)
	h.render(w, r, st)
}

func (h *TableHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Term   string `json:"term"`
		Column string `json:"column"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	st := h.state(r)
	if !h.allowed(w, r, st, gate.ActionList) {
		return
	}
	if err := st.Search(req.Term, req.Column); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_column", map[string]string{"column": req.Column})
		return
	}
	h.render(w, r, st)
}

func (h *TableHandler) Sort(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	st := h.state(r)
	if !h.allowed(w, r, st, gate.ActionList) {
		return
	}
	if err := st.ToggleSort(req.Key); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_column", map[string]string{"column": req.Key})
		return
	}
	h.render(w, r, st)
}

func (h *TableHandler) Page(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Page int `json:"page"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	st := h.state(r)
	if !h.allowed(w, r, st, gate.ActionList) {
		return
	}
	st.SetPage(req.Page)
	h.render(w, r, st)
}

// Pin toggles a column pin. A refused pin (identity column or limit
// reached) is not an error; the view shows the unchanged layout.
func (h *TableHandler) Pin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	st := h.state(r)
	if !h.allowed(w, r, st, gate.ActionList) {
		return
	}
	st.TogglePin(req.Key)
	h.render(w, r, st)
}

func (h *TableHandler) Visibility(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key     string `json:"key"`
		Visible bool   `json:"visible"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	st := h.state(r)
	if !h.allowed(w, r, st, gate.ActionList) {
		return
	}
	st.SetVisible(req.Key, req.Visible)
	h.render(w, r, st)
}

func (h *TableHandler) EditMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	st := h.state(r)
	if req.Enabled && !h.allowed(w, r, st, gate.ActionUpdate) {
		return
	}
	st.SetEditMode(req.Enabled)
	h.render(w, r, st)
}

func (h *TableHandler) EditStart(w http.ResponseWriter, r *http.Request) {
	var cell table.Cell
	if err := httpx.DecodeJSON(r, &cell); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	st := h.state(r)
	if !h.allowed(w, r, st, gate.ActionUpdate) {
		return
	}
	if err := st.StartEdit(r.Context(), cell); err != nil {
		h.editError(w, r, err)
		return
	}
	h.render(w, r, st)
}

func (h *TableHandler) EditValue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value string `json:"value"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	st := h.state(r)
	if err := st.SetEditValue(req.Value); err != nil {
		h.editError(w, r, err)
		return
	}
	h.render(w, r, st)
}

// EditSave commits the open cell and answers the re-fetched view.
func (h *TableHandler) EditSave(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)
	if !h.allowed(w, r, st, gate.ActionUpdate) {
		return
	}
	cell, err := st.SaveEdit(r.Context())
	if err != nil {
		h.editError(w, r, err)
		return
	}
	h.logger.WithFields(logrus.Fields{"user_id": currentUser(r), "row_id": cell.RowID, "column": cell.Column}).Info("cell updated")
	h.render(w, r, st)
}

func (h *TableHandler) EditCancel(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)
	st.CancelEdit()
	h.render(w, r, st)
}

func (h *TableHandler) editError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, table.ErrEditModeOff):
		httpx.JSONError(w, http.StatusConflict, "edit_mode_off", nil)
	case errors.Is(err, table.ErrNoActiveEdit):
		httpx.JSONError(w, http.StatusConflict, "no_active_edit", nil)
	case errors.Is(err, table.ErrEditSuperseded):
		httpx.JSONError(w, http.StatusConflict, "edit_superseded", nil)
	case errors.Is(err, table.ErrNotEditable), errors.Is(err, records.ErrNotEditable):
		httpx.JSONError(w, http.StatusBadRequest, "not_editable", nil)
	case errors.Is(err, catalog.ErrInvalidValue):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_value", map[string]string{"message": err.Error()})
	case errors.Is(err, records.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, records.ErrDuplicate):
		httpx.JSONError(w, http.StatusConflict, "duplicate_value", nil)
	default:
		internalError(w, r, h.logger, "handlers", "TableHandler.edit", "update_failed", err)
	}
}

// Export streams the filtered and sorted rows, visible columns only, as
// XLSX.
func (h *TableHandler) Export(w http.ResponseWriter, r *http.Request) {
	st := h.state(r)
	if !h.allowed(w, r, st, gate.ActionExport) {
		return
	}
	spec, cols, rows, err := st.Export(r.Context())
	if err != nil {
		internalError(w, r, h.logger, "handlers", "TableHandler.Export", "load_failed", err)
		return
	}
	l := lang(r)
	filename := fmt.Sprintf("%s_%s.xlsx", spec.Entity, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	attachment(w, filename)
	if err := table.WriteXLSX(w, string(spec.Entity), cols, rows, i18n.T(l, "yes"), i18n.T(l, "no")); err != nil {
		config.LogError(h.logger, "handlers", "TableHandler.Export", "write xlsx", nil, err)
	}
}
