package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/diewo77/salescrm/httpx"
	"github.com/diewo77/salescrm/internal/intake"
	"github.com/diewo77/salescrm/internal/ocr"
	"github.com/diewo77/salescrm/internal/records"
	"github.com/diewo77/salescrm/validation"
	"github.com/sirupsen/logrus"
)

// IntakeHandler exposes the client registration wizard of the session user.
type IntakeHandler struct {
	wizards   *intake.Manager
	src       records.Source
	extractor intake.Extractor
	logger    logrus.FieldLogger
}

func NewIntakeHandler(wizards *intake.Manager, src records.Source, extractor intake.Extractor, logger logrus.FieldLogger) *IntakeHandler {
	return &IntakeHandler{wizards: wizards, src: src, extractor: extractor, logger: logger}
}

func (h *IntakeHandler) wizard(r *http.Request) *intake.Wizard {
	return h.wizards.For(currentUser(r))
}

// Open returns the wizard, restored from the saved draft.
func (h *IntakeHandler) Open(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.wizard(r).Open(r.Context()))
}

// Set applies a JSON object of field values. Nothing changes when any of
// them is rejected.
func (h *IntakeHandler) Set(w http.ResponseWriter, r *http.Request) {
	var values map[string]any
	if err := httpx.DecodeJSON(r, &values); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	wz := h.wizard(r)
	if err := wz.SetMany(r.Context(), values); err != nil {
		var v validation.Violations
		if errors.As(err, &v) {
			violations(w, r, http.StatusBadRequest, v)
			return
		}
		internalError(w, r, h.logger, "handlers", "IntakeHandler.Set", "update_failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, wz.Open(r.Context()))
}

func (h *IntakeHandler) Next(w http.ResponseWriter, r *http.Request) {
	snap, v := h.wizard(r).Next(r.Context())
	if !v.Empty() {
		httpx.JSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   "validation_failed",
			"details": v.Translate(lang(r)),
			"wizard":  snap,
		})
		return
	}
	httpx.JSON(w, http.StatusOK, snap)
}

func (h *IntakeHandler) Previous(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.wizard(r).Previous(r.Context()))
}

// Submit inserts the client and clears the draft.
func (h *IntakeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	c, v, err := h.wizard(r).Submit(r.Context(), h.src)
	switch {
	case !v.Empty():
		violations(w, r, http.StatusUnprocessableEntity, v)
	case errors.Is(err, intake.ErrDuplicateClient):
		message(w, r, http.StatusConflict, intake.ErrDuplicateClient.Error())
	case err != nil:
		internalError(w, r, h.logger, "handlers", "IntakeHandler.Submit", intake.ErrSubmitFailed.Error(), err)
	default:
		h.logger.WithFields(logrus.Fields{"user_id": currentUser(r), "client_id": c.ID}).Info("client registered")
		httpx.JSON(w, http.StatusCreated, c)
	}
}

// Autofill reads ID photos (multipart "file"/"files*") and merges the
// extracted values into the draft. confirm_single=true accepts a single
// image.
func (h *IntakeHandler) Autofill(w http.ResponseWriter, r *http.Request) {
	uploads, err := readUploads(w, r)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid multipart body"})
		return
	}
	confirm, _ := strconv.ParseBool(r.FormValue("confirm_single"))

	wz := h.wizard(r)
	merged, err := wz.Autofill(r.Context(), h.extractor, uploads, confirm)
	var oerr *ocr.Error
	switch {
	case errors.Is(err, intake.ErrNotFirstStep), errors.Is(err, intake.ErrSingleImageUnconfirmed):
		message(w, r, http.StatusConflict, err.Error())
	case errors.As(err, &oerr):
		ocrError(w, r, oerr)
	case err != nil:
		internalError(w, r, h.logger, "handlers", "IntakeHandler.Autofill", "load_failed", err)
	default:
		httpx.JSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    merged,
			"wizard":  wz.Open(r.Context()),
		})
	}
}
