package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/salescrm/httpx"
	"github.com/diewo77/salescrm/internal/intake"
	"github.com/diewo77/salescrm/internal/ocr"
)

// OCRHandler is the standalone document extraction endpoint.
type OCRHandler struct {
	extractor intake.Extractor
}

func NewOCRHandler(extractor intake.Extractor) *OCRHandler {
	return &OCRHandler{extractor: extractor}
}

// Extract answers {success, data} or {error} with the status of the
// failure kind.
func (h *OCRHandler) Extract(w http.ResponseWriter, r *http.Request) {
	uploads, err := readUploads(w, r)
	if err != nil {
		ocrError(w, r, ocr.NoFileError())
		return
	}
	fields, err := h.extractor.Extract(r.Context(), uploads)
	if err != nil {
		var oerr *ocr.Error
		if !errors.As(err, &oerr) {
			oerr = &ocr.Error{Kind: ocr.KindUpstream, Message: "Failed to process document. Check server logs for details.", Err: err}
		}
		ocrError(w, r, oerr)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "data": fields})
}
