package main

import (
	"net/http"

	"github.com/diewo77/salescrm/auth"
	"github.com/diewo77/salescrm/gate"
	"github.com/diewo77/salescrm/httpx"
	"github.com/diewo77/salescrm/internal/handlers"
	"github.com/diewo77/salescrm/internal/intake"
	"github.com/diewo77/salescrm/internal/middleware"
	"github.com/diewo77/salescrm/internal/policy"
	"github.com/diewo77/salescrm/internal/records"
	"github.com/diewo77/salescrm/internal/services"
	"github.com/diewo77/salescrm/internal/table"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	DB        *gorm.DB
	Source    records.Source
	Drafts    intake.DraftStore
	Extractor intake.Extractor
	Logger    logrus.FieldLogger
}

// App is the HTTP API.
type App struct {
	mux     *http.ServeMux
	handler http.Handler
	gate    *policy.AuthGate
}

func NewApp(d Deps) *App {
	a := &App{
		mux:  http.NewServeMux(),
		gate: policy.NewAuthGate(d.DB, policy.DefaultCacheTTL),
	}
	a.setupRoutes(d)
	a.handler = middleware.Chain(a.mux,
		middleware.Recover(d.Logger),
		middleware.SecurityHeaders,
		auth.Middleware,
		middleware.AccessLog(d.Logger),
		middleware.Prefs,
	)
	return a
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) setupRoutes(d Deps) {
	sessions := table.NewSessions(d.Source)

	wizards := intake.NewManager(d.Drafts, d.Logger)
	ah := handlers.NewAuthHandler(d.DB, a.gate, sessions, wizards, d.Logger)
	a.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	a.mux.HandleFunc("POST /api/auth/login", ah.Login)
	a.mux.HandleFunc("POST /api/auth/logout", ah.Logout)
	a.mux.Handle("GET /api/auth/me", auth.RequireAuth(http.HandlerFunc(ah.Me)))

	// Stateless lists and single records
	rh := handlers.NewRecordsHandler(d.Source, d.Logger)
	a.mux.Handle("GET /api/apartments", a.guard(gate.ResourceApartment, gate.ActionList, rh.Apartments))
	a.mux.Handle("GET /api/clients", a.guard(gate.ResourceClient, gate.ActionList, rh.Clients))
	a.mux.Handle("GET /api/clients/{id}", a.guard(gate.ResourceClient, gate.ActionView, rh.Client))

	dh := handlers.NewDossierHandler(d.Source, d.Logger)
	a.mux.Handle("GET /api/clients/{id}/dossier.pdf", a.guard(gate.ResourceClient, gate.ActionView, dh.Download))

	sh := handlers.NewDashboardHandler(services.NewSalesService(d.Source), d.Logger)
	a.mux.Handle("GET /api/dashboard", a.guard(gate.ResourceApartment, gate.ActionList, sh.Summary))

	// Grid; the handler checks the permission of the entity on screen.
	th := handlers.NewTableHandler(sessions, a.gate, d.Logger)
	for pattern, fn := range map[string]http.HandlerFunc{
		"GET /api/table":              th.View,
		"GET /api/table/export.xlsx":  th.Export,
		"POST /api/table/entity":      th.SetEntity,
		"POST /api/table/search":      th.Search,
		"POST /api/table/sort":        th.Sort,
		"POST /api/table/page":        th.Page,
		"POST /api/table/pin":         th.Pin,
		"POST /api/table/visibility":  th.Visibility,
		"POST /api/table/edit-mode":   th.EditMode,
		"POST /api/table/edit/start":  th.EditStart,
		"POST /api/table/edit/value":  th.EditValue,
		"POST /api/table/edit/save":   th.EditSave,
		"POST /api/table/edit/cancel": th.EditCancel,
	} {
		a.mux.Handle(pattern, auth.RequireAuth(fn))
	}

	// Intake wizard
	ih := handlers.NewIntakeHandler(wizards, d.Source, d.Extractor, d.Logger)
	a.mux.Handle("GET /api/intake", a.guard(gate.ResourceClient, gate.ActionCreate, ih.Open))
	a.mux.Handle("PATCH /api/intake", a.guard(gate.ResourceClient, gate.ActionCreate, ih.Set))
	a.mux.Handle("POST /api/intake/next", a.guard(gate.ResourceClient, gate.ActionCreate, ih.Next))
	a.mux.Handle("POST /api/intake/previous", a.guard(gate.ResourceClient, gate.ActionCreate, ih.Previous))
	a.mux.Handle("POST /api/intake/submit", a.guard(gate.ResourceClient, gate.ActionCreate, ih.Submit))
	a.mux.Handle("POST /api/intake/autofill", a.guard(gate.ResourceOCR, gate.ActionExtract, ih.Autofill))

	oh := handlers.NewOCRHandler(d.Extractor)
	a.mux.Handle("POST /api/ocr/extract-document", a.guard(gate.ResourceOCR, gate.ActionExtract, oh.Extract))

	// Admin
	adm := handlers.NewAdminHandler(d.DB, a.gate, d.Logger)
	a.mux.Handle("GET /api/admin/users", a.admin(adm.Users))
	a.mux.Handle("POST /api/admin/users/{id}/profile", a.admin(adm.AssignProfile))
	a.mux.Handle("GET /api/admin/profiles", a.admin(adm.Profiles))
	a.mux.Handle("POST /api/admin/profiles", a.admin(adm.CreateProfile))
	a.mux.Handle("PUT /api/admin/profiles/{id}/permissions", a.admin(adm.SetPermissions))
}

// guard requires a session and resource:action.
func (a *App) guard(resource string, action gate.Action, fn http.HandlerFunc) http.Handler {
	return auth.RequireAuth(a.gate.RequirePermission(resource, action)(fn))
}

func (a *App) admin(fn http.HandlerFunc) http.Handler {
	return auth.RequireAuth(a.gate.RequireAdmin()(fn))
}
