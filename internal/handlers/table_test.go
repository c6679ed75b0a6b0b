package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diewo77/salescrm/internal/models"
	"github.com/diewo77/salescrm/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestTable_ViewerCannotEdit(t *testing.T) {
	e := setup(t)
	e.apartments(t, 3)
	viewer := e.user(t, "viewer@example.com", "viewer")
	h := NewTableHandler(table.NewSessions(e.src), e.gate, e.logger)

	rr := httptest.NewRecorder()
	h.View(rr, request(http.MethodGet, "/api/table", nil, viewer.ID))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 3, decode(t, rr)["total"])

	rr = httptest.NewRecorder()
	h.EditMode(rr, request(http.MethodPost, "/api/table/edit-mode", map[string]bool{"enabled": true}, viewer.ID))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = httptest.NewRecorder()
	h.Export(rr, request(http.MethodGet, "/api/table/export.xlsx", nil, viewer.ID))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestTable_EditFlow(t *testing.T) {
	e := setup(t)
	e.apartments(t, 3)
	sales := e.user(t, "sales@example.com", "sales")
	h := NewTableHandler(table.NewSessions(e.src), e.gate, e.logger)

	var apt models.Apartment
	require.NoError(t, e.db.Where("apartamento = ?", "A-02").First(&apt).Error)
	cell := map[string]string{"row_id": apt.ID, "column": "valor_total"}

	rr := httptest.NewRecorder()
	h.EditStart(rr, request(http.MethodPost, "/api/table/edit/start", cell, sales.ID))
	assert.Equal(t, http.StatusConflict, rr.Code, "edit mode is off")

	rr = httptest.NewRecorder()
	h.EditMode(rr, request(http.MethodPost, "/api/table/edit-mode", map[string]bool{"enabled": true}, sales.ID))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.EditStart(rr, request(http.MethodPost, "/api/table/edit/start", map[string]string{"row_id": apt.ID, "column": "vendido"}, sales.ID))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	h.EditStart(rr, request(http.MethodPost, "/api/table/edit/start", cell, sales.ID))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	editor := decode(t, rr)["editor"].(map[string]any)
	assert.Equal(t, "2000", editor["value"])

	rr = httptest.NewRecorder()
	h.EditValue(rr, request(http.MethodPost, "/api/table/edit/value", map[string]string{"value": "mucho"}, sales.ID))
	require.Equal(t, http.StatusOK, rr.Code)
	rr = httptest.NewRecorder()
	h.EditSave(rr, request(http.MethodPost, "/api/table/edit/save", nil, sales.ID))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_value", decode(t, rr)["error"])

	rr = httptest.NewRecorder()
	h.EditValue(rr, request(http.MethodPost, "/api/table/edit/value", map[string]string{"value": "2500,5"}, sales.ID))
	require.Equal(t, http.StatusOK, rr.Code)
	rr = httptest.NewRecorder()
	h.EditSave(rr, request(http.MethodPost, "/api/table/edit/save", nil, sales.ID))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	require.NoError(t, e.db.First(&apt, "id = ?", apt.ID).Error)
	assert.Equal(t, 2500.5, *apt.ValorTotal)
	rows := decode(t, rr)["rows"].([]any)
	assert.Equal(t, 2500.5, rows[1].(map[string]any)["valor_total"])

	rr = httptest.NewRecorder()
	h.EditSave(rr, request(http.MethodPost, "/api/table/edit/save", nil, sales.ID))
	assert.Equal(t, http.StatusConflict, rr.Code, "nothing left to save")
}

func TestTable_SearchSortEntity(t *testing.T) {
	e := setup(t)
	e.apartments(t, 25)
	sales := e.user(t, "sales@example.com", "sales")
	h := NewTableHandler(table.NewSessions(e.src), e.gate, e.logger)

	rr := httptest.NewRecorder()
	h.Page(rr, request(http.MethodPost, "/api/table/page", map[string]int{"page": 2}, sales.ID))
	body := decode(t, rr)
	assert.EqualValues(t, 2, body["page"])
	assert.Len(t, body["rows"], 5)

	rr = httptest.NewRecorder()
	h.Search(rr, request(http.MethodPost, "/api/table/search", map[string]string{"term": "A-2", "column": "apartamento"}, sales.ID))
	body = decode(t, rr)
	assert.EqualValues(t, 1, body["page"])
	assert.EqualValues(t, 6, body["total"])

	rr = httptest.NewRecorder()
	h.Sort(rr, request(http.MethodPost, "/api/table/sort", map[string]string{"key": "apartamento"}, sales.ID))
	body = decode(t, rr)
	assert.Equal(t, "desc", body["sort_order"])
	assert.Equal(t, "A-25", body["rows"].([]any)[0].(map[string]any)["apartamento"])

	rr = httptest.NewRecorder()
	h.Search(rr, request(http.MethodPost, "/api/table/search", map[string]string{"term": "x", "column": "nope"}, sales.ID))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	h.Pin(rr, request(http.MethodPost, "/api/table/pin", map[string]string{"key": "valor_total"}, sales.ID))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.SetEntity(rr, request(http.MethodPost, "/api/table/entity", map[string]string{"entity": "clients"}, sales.ID))
	require.Equal(t, http.StatusOK, rr.Code)
	body = decode(t, rr)
	assert.Equal(t, "clients", body["entity"])
	assert.Equal(t, "numero_identificacion", body["sort_key"])
	assert.EqualValues(t, 0, body["total"])
	for _, c := range body["columns"].([]any) {
		assert.False(t, c.(map[string]any)["pinned"].(bool))
	}

	rr = httptest.NewRecorder()
	h.SetEntity(rr, request(http.MethodPost, "/api/table/entity", map[string]string{"entity": "casas"}, sales.ID))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTable_Export(t *testing.T) {
	e := setup(t)
	e.apartments(t, 3)
	sales := e.user(t, "sales@example.com", "sales")
	sessions := table.NewSessions(e.src)
	h := NewTableHandler(sessions, e.gate, e.logger)

	rr := httptest.NewRecorder()
	h.Visibility(rr, request(http.MethodPost, "/api/table/visibility", map[string]any{"key": "valor_total", "visible": false}, sales.ID))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.Export(rr, request(http.MethodGet, "/api/table/export.xlsx", nil, sales.ID))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "apartments_")

	f, err := excelize.OpenReader(rr.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("apartments")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.NotContains(t, rows[0], "Valor Total")
	assert.Equal(t, "A-01", rows[1][0])
}

func TestTable_ViewReloadsRows(t *testing.T) {
	e := setup(t)
	e.apartments(t, 2)
	viewer := e.user(t, "viewer@example.com", "viewer")
	h := NewTableHandler(table.NewSessions(e.src), e.gate, e.logger)

	rr := httptest.NewRecorder()
	h.View(rr, request(http.MethodGet, "/api/table", nil, viewer.ID))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 2, decode(t, rr)["total"])

	require.NoError(t, e.db.Create(&models.Apartment{Apartamento: "B-01"}).Error)
	rr = httptest.NewRecorder()
	h.View(rr, request(http.MethodGet, "/api/table", nil, viewer.ID))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 3, decode(t, rr)["total"], "rows written elsewhere show on the next view")
}
