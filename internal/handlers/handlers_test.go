package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/salescrm/auth"
	"github.com/diewo77/salescrm/internal/db"
	"github.com/diewo77/salescrm/internal/intake"
	"github.com/diewo77/salescrm/internal/models"
	"github.com/diewo77/salescrm/internal/policy"
	"github.com/diewo77/salescrm/internal/records"
	"github.com/diewo77/salescrm/internal/services"
	"github.com/diewo77/salescrm/internal/table"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type env struct {
	db     *gorm.DB
	src    *records.DBSource
	gate   *policy.AuthGate
	logger *logrus.Logger
}

func setup(t *testing.T) *env {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(db.Models()...))
	require.NoError(t, db.SeedProfiles(gdb))
	logger, _ := test.NewNullLogger()
	return &env{db: gdb, src: records.NewDBSource(gdb), gate: policy.NewAuthGate(gdb, policy.DefaultCacheTTL), logger: logger}
}

// user creates a user with password "secret" and the named profile.
func (e *env) user(t *testing.T, email, profile string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	u := models.User{Email: email, Password: string(hash), Name: email}
	if profile != "" {
		var p models.Profile
		require.NoError(t, e.db.Where("name = ?", profile).First(&p).Error)
		u.ProfileID = &p.ID
	}
	require.NoError(t, e.db.Create(&u).Error)
	return u
}

func (e *env) apartments(t *testing.T, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		total := float64(i) * 1000
		sold := i%2 == 0
		require.NoError(t, e.db.Create(&models.Apartment{Apartamento: fmt.Sprintf("A-%02d", i), ValorTotal: &total, Vendido: &sold}).Error)
	}
}

func request(method, target string, body any, uid uint) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, target, &buf)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if uid != 0 {
		r = r.WithContext(auth.WithUserID(r.Context(), uid))
	}
	return r
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m), rr.Body.String())
	return m
}

func TestLogin(t *testing.T) {
	e := setup(t)
	u := e.user(t, "ventas@example.com", "sales")
	h := NewAuthHandler(e.db, e.gate, table.NewSessions(e.src), intake.NewManager(intake.NewMemoryDraftStore(), e.logger), e.logger)

	rr := httptest.NewRecorder()
	h.Login(rr, request(http.MethodPost, "/api/auth/login", map[string]string{"email": " Ventas@Example.com ", "password": "secret"}, 0))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	uid, ok := auth.ParseSession(req)
	require.True(t, ok)
	assert.Equal(t, u.ID, uid)

	rr = httptest.NewRecorder()
	h.Login(rr, request(http.MethodPost, "/api/auth/login", map[string]string{"email": "ventas@example.com", "password": "nope"}, 0))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, "invalid_credentials", body["error"])
	assert.Equal(t, "Credenciales inválidas", body["details"].(map[string]any)["message"])

	rr = httptest.NewRecorder()
	h.Login(rr, request(http.MethodPost, "/api/auth/login", map[string]string{"email": "nadie@example.com", "password": "secret"}, 0))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogout_DropsUserState(t *testing.T) {
	e := setup(t)
	u := e.user(t, "ventas@example.com", "sales")
	sessions := table.NewSessions(e.src)
	wizards := intake.NewManager(intake.NewMemoryDraftStore(), e.logger)
	h := NewAuthHandler(e.db, e.gate, sessions, wizards, e.logger)
	grid, wizard := sessions.Get(u.ID), wizards.For(u.ID)

	rr := httptest.NewRecorder()
	h.Logout(rr, request(http.MethodPost, "/api/auth/logout", nil, u.ID))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.NotSame(t, grid, sessions.Get(u.ID))
	assert.NotSame(t, wizard, wizards.For(u.ID))
}

func TestMe(t *testing.T) {
	e := setup(t)
	u := e.user(t, "viewer@example.com", "viewer")
	h := NewAuthHandler(e.db, e.gate, table.NewSessions(e.src), intake.NewManager(intake.NewMemoryDraftStore(), e.logger), e.logger)

	rr := httptest.NewRecorder()
	h.Me(rr, request(http.MethodGet, "/api/auth/me", nil, u.ID))
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.ElementsMatch(t, []any{"apartment:list", "client:list", "client:view"}, body["permissions"])
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestRecords_Apartments(t *testing.T) {
	e := setup(t)
	e.apartments(t, 25)
	h := NewRecordsHandler(e.src, e.logger)

	rr := httptest.NewRecorder()
	h.Apartments(rr, request(http.MethodGet, "/api/apartments", nil, 1))
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.EqualValues(t, 25, body["total"])
	assert.EqualValues(t, 2, body["total_pages"])
	items := body["items"].([]any)
	require.Len(t, items, 20)
	assert.Equal(t, "A-01", items[0].(map[string]any)["apartamento"])

	rr = httptest.NewRecorder()
	h.Apartments(rr, request(http.MethodGet, "/api/apartments?sort=valor_total&order=desc&page=9", nil, 1))
	body = decode(t, rr)
	assert.EqualValues(t, 2, body["page"])
	items = body["items"].([]any)
	require.Len(t, items, 5)
	assert.Equal(t, "A-05", items[0].(map[string]any)["apartamento"])

	rr = httptest.NewRecorder()
	h.Apartments(rr, request(http.MethodGet, "/api/apartments?q=a-1&column=apartamento", nil, 1))
	assert.EqualValues(t, 10, decode(t, rr)["total"])

	rr = httptest.NewRecorder()
	h.Apartments(rr, request(http.MethodGet, "/api/apartments?column=nope", nil, 1))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecords_ClientNotFound(t *testing.T) {
	e := setup(t)
	h := NewRecordsHandler(e.src, e.logger)
	req := request(http.MethodGet, "/api/clients/missing", nil, 1)
	req.SetPathValue("id", "missing")
	rr := httptest.NewRecorder()
	h.Client(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDashboard(t *testing.T) {
	e := setup(t)
	e.apartments(t, 4)
	h := NewDashboardHandler(services.NewSalesService(e.src), e.logger)

	rr := httptest.NewRecorder()
	h.Summary(rr, request(http.MethodGet, "/api/dashboard", nil, 1))
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.EqualValues(t, 4, body["units"])
	assert.EqualValues(t, 2, body["sold"])
}

func TestDossier_Download(t *testing.T) {
	e := setup(t)
	nombre, apellido, doc := "Ana", "Gómez", "1020304050"
	c := models.Client{PrimerNombre: &nombre, PrimerApellido: &apellido, NumeroIdentificacion: &doc}
	require.NoError(t, e.db.Create(&c).Error)
	h := NewDossierHandler(e.src, e.logger)

	req := request(http.MethodGet, "/api/clients/"+c.ID+"/dossier.pdf", nil, 1)
	req.SetPathValue("id", c.ID)
	rr := httptest.NewRecorder()
	h.Download(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	disp, params, err := mime.ParseMediaType(rr.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disp)
	assert.True(t, strings.HasPrefix(params["filename"], "cliente_Ana_Gómez_"), params["filename"])
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")))
}

func TestAttachment_EncodesFilename(t *testing.T) {
	for _, name := range []string{
		"apartments_2026-10-17.xlsx",
		"cliente_José_Gómez_2026-10-17.pdf",
		`cliente_Ana "La Flaca"_Ruiz_2026-10-17.pdf`,
	} {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			attachment(rr, name)
			disp, params, err := mime.ParseMediaType(rr.Header().Get("Content-Disposition"))
			require.NoError(t, err)
			assert.Equal(t, "attachment", disp)
			assert.Equal(t, name, params["filename"])
		})
	}
}
