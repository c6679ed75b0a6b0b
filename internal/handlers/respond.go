package handlers

import (
	"io"
	"mime"
	"net/http"
	"sort"
	"strings"

	"github.com/diewo77/salescrm/auth"
	"github.com/diewo77/salescrm/httpx"
	"github.com/diewo77/salescrm/i18n"
	"github.com/diewo77/salescrm/internal/config"
	"github.com/diewo77/salescrm/internal/ocr"
	"github.com/diewo77/salescrm/validation"
	"github.com/sirupsen/logrus"
)

// maxUploadBody bounds multipart requests; oversize files still reach
// ocr.Validate so the user gets the per-file message.
const maxUploadBody = 64 << 20

func lang(r *http.Request) string { return i18n.LangFrom(r.Context()) }

func currentUser(r *http.Request) uint {
	uid, _ := auth.UserIDFromContext(r.Context())
	return uid
}

// attachment marks the response as a download named filename. Quotes and
// non-ASCII names are encoded per RFC 2231.
func attachment(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}

// message answers with a translated message code.
func message(w http.ResponseWriter, r *http.Request, status int, code string) {
	httpx.JSONError(w, status, code, map[string]string{"message": i18n.T(lang(r), code)})
}

func violations(w http.ResponseWriter, r *http.Request, status int, v validation.Violations) {
	httpx.JSONError(w, status, "validation_failed", v.Translate(lang(r)))
}

// internalError logs err and answers 500 without leaking it.
func internalError(w http.ResponseWriter, r *http.Request, logger logrus.FieldLogger, module, fn, code string, err error) {
	config.LogError(logger, module, fn, r.Method+" "+r.URL.Path, map[string]any{"user_id": currentUser(r)}, err)
	message(w, r, http.StatusInternalServerError, code)
}

func ocrError(w http.ResponseWriter, r *http.Request, err *ocr.Error) {
	body := map[string]string{"error": err.Message}
	if err.Code != "" {
		body["code"] = err.Code
		body["message"] = i18n.T(lang(r), err.Code)
	}
	httpx.JSON(w, err.Status(), body)
}

// readUploads collects the "file" part and every "files*" part, in key
// order.
func readUploads(w http.ResponseWriter, r *http.Request) ([]ocr.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, err
	}
	form := r.MultipartForm
	keys := make([]string, 0, len(form.File))
	for k := range form.File {
		if k == "file" || strings.HasPrefix(k, "files") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var uploads []ocr.Upload
	for _, k := range keys {
		for _, fh := range form.File[k] {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return nil, err
			}
			uploads = append(uploads, ocr.Upload{
				Name:        fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Data:        data,
			})
		}
	}
	return uploads, nil
}
