package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/diewo77/salescrm/httpx"
	"github.com/diewo77/salescrm/internal/config"
	"github.com/diewo77/salescrm/internal/dossier"
	"github.com/diewo77/salescrm/internal/records"
	"github.com/sirupsen/logrus"
)

type DossierHandler struct {
	src    records.Source
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewDossierHandler(src records.Source, logger logrus.FieldLogger) *DossierHandler {
	return &DossierHandler{src: src, logger: logger, now: time.Now}
}

// Download streams the client's dossier as a PDF attachment.
func (h *DossierHandler) Download(w http.ResponseWriter, r *http.Request) {
	c, err := h.src.Client(r.Context(), r.PathValue("id"))
	if errors.Is(err, records.ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		internalError(w, r, h.logger, "handlers", "DossierHandler.Download", "load_failed", err)
		return
	}
	doc, err := dossier.Render(c, lang(r))
	if err != nil {
		internalError(w, r, h.logger, "handlers", "DossierHandler.Download", "load_failed", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	attachment(w, dossier.Filename(c, h.now()))
	if _, err := doc.WriteTo(w); err != nil {
		config.LogError(h.logger, "handlers", "DossierHandler.Download", "write pdf", map[string]string{"client_id": c.ID}, err)
	}
}
