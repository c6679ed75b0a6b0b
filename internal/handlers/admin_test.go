package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/diewo77/salescrm/auth"
	"github.com/diewo77/salescrm/gate"
	"github.com/diewo77/salescrm/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_AssignProfile(t *testing.T) {
	e := setup(t)
	admin := e.user(t, "admin@example.com", "admin")
	target := e.user(t, "nuevo@example.com", "viewer")
	h := NewAdminHandler(e.db, e.gate, e.logger)
	ctx := auth.WithUserID(t.Context(), target.ID)
	require.False(t, e.gate.Can(ctx, gate.ActionCreate, gate.ResourceClient))

	var sales models.Profile
	require.NoError(t, e.db.Where("name = ?", "sales").First(&sales).Error)

	id := strconv.FormatUint(uint64(target.ID), 10)
	req := request(http.MethodPost, "/api/admin/users/"+id+"/profile", map[string]any{"profile_id": sales.ID}, admin.ID)
	req.SetPathValue("id", id)
	rr := httptest.NewRecorder()
	h.AssignProfile(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.True(t, e.gate.Can(ctx, gate.ActionCreate, gate.ResourceClient))

	req = request(http.MethodPost, "/api/admin/users/999/profile", map[string]any{"profile_id": sales.ID}, admin.ID)
	req.SetPathValue("id", "999")
	rr = httptest.NewRecorder()
	h.AssignProfile(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdmin_Profiles(t *testing.T) {
	e := setup(t)
	admin := e.user(t, "admin@example.com", "admin")
	h := NewAdminHandler(e.db, e.gate, e.logger)

	rr := httptest.NewRecorder()
	h.CreateProfile(rr, request(http.MethodPost, "/api/admin/profiles", map[string]string{"name": "exports"}, admin.ID))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	id := strconv.FormatFloat(decode(t, rr)["id"].(float64), 'f', 0, 64)

	rr = httptest.NewRecorder()
	h.CreateProfile(rr, request(http.MethodPost, "/api/admin/profiles", map[string]string{"name": "exports"}, admin.ID))
	assert.Equal(t, http.StatusConflict, rr.Code)

	req := request(http.MethodPut, "/api/admin/profiles/"+id+"/permissions", map[string]any{"permissions": []string{"apartment:export", "client:export"}}, admin.ID)
	req.SetPathValue("id", id)
	rr = httptest.NewRecorder()
	h.SetPermissions(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Len(t, decode(t, rr)["permissions"], 2)

	req = request(http.MethodPut, "/api/admin/profiles/"+id+"/permissions", map[string]any{"permissions": []string{"invoice:delete"}}, admin.ID)
	req.SetPathValue("id", id)
	rr = httptest.NewRecorder()
	h.SetPermissions(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var system models.Profile
	require.NoError(t, e.db.Where("name = ?", "admin").First(&system).Error)
	sid := strconv.FormatUint(uint64(system.ID), 10)
	req = request(http.MethodPut, "/api/admin/profiles/"+sid+"/permissions", map[string]any{"permissions": []string{}}, admin.ID)
	req.SetPathValue("id", sid)
	rr = httptest.NewRecorder()
	h.SetPermissions(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
