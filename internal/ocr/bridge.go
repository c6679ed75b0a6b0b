// Package ocr reads personal data off photographs of a Colombian ID document
// by asking a hosted vision-language model for a fixed JSON object.
package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// Fields is what the model read off the document. Illegible fields are nil.
type Fields struct {
	TipoIdentificacion     *string `json:"tipo_identificacion"`
	NumeroIdentificacion   *string `json:"numero_identificacion"`
	FechaExpedicion        *string `json:"fecha_expedicion"`
	CiudadExpedicion       *string `json:"ciudad_expedicion"`
	PrimerNombre           *string `json:"primer_nombre"`
	SegundoNombre          *string `json:"segundo_nombre"`
	PrimerApellido         *string `json:"primer_apellido"`
	SegundoApellido        *string `json:"segundo_apellido"`
	FechaNacimiento        *string `json:"fecha_nacimiento"`
	Genero                 *string `json:"genero"`
	Nacionalidad           *string `json:"nacionalidad"`
	PaisNacimiento         *string `json:"pais_nacimiento"`
	DepartamentoNacimiento *string `json:"departamento_nacimiento"`
	CiudadNacimiento       *string `json:"ciudad_nacimiento"`
}

// Map returns the non-empty fields keyed by their JSON name.
func (f *Fields) Map() map[string]string {
	out := map[string]string{}
	for key, p := range map[string]*string{
		"tipo_identificacion":     f.TipoIdentificacion,
		"numero_identificacion":   f.NumeroIdentificacion,
		"fecha_expedicion":        f.FechaExpedicion,
		"ciudad_expedicion":       f.CiudadExpedicion,
		"primer_nombre":           f.PrimerNombre,
		"segundo_nombre":          f.SegundoNombre,
		"primer_apellido":         f.PrimerApellido,
		"segundo_apellido":        f.SegundoApellido,
		"fecha_nacimiento":        f.FechaNacimiento,
		"genero":                  f.Genero,
		"nacionalidad":            f.Nacionalidad,
		"pais_nacimiento":         f.PaisNacimiento,
		"departamento_nacimiento": f.DepartamentoNacimiento,
		"ciudad_nacimiento":       f.CiudadNacimiento,
	} {
		if p != nil && strings.TrimSpace(*p) != "" {
			out[key] = strings.TrimSpace(*p)
		}
	}
	return out
}

// normalizeGender maps the document's M/F letters and free text onto the
// form's options.
func normalizeGender(g *string) *string {
	if g == nil || strings.TrimSpace(*g) == "" {
		return g
	}
	var v string
	switch strings.ToLower(strings.TrimSpace(*g)) {
	case "m", "masculino", "male", "hombre":
		v = "Masculino"
	case "f", "femenino", "female", "mujer":
		v = "Femenino"
	default:
		v = "Otro"
	}
	return &v
}

// Bridge validates uploads, calls the model and parses its reply.
type Bridge struct {
	model  Model
	logger logrus.FieldLogger
}

func NewBridge(model Model, logger logrus.FieldLogger) *Bridge {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Bridge{model: model, logger: logger}
}

// Extract reads the document shown in uploads. Every failure is an *Error.
func (b *Bridge) Extract(ctx context.Context, uploads []Upload) (*Fields, error) {
	if err := Validate(uploads); err != nil {
		return nil, err
	}
	urls := make([]string, len(uploads))
	for i, u := range uploads {
		urls[i] = u.DataURL()
	}

	reply, err := b.model.Complete(ctx, Prompt(len(uploads)), urls)
	if err != nil {
		b.logger.WithError(err).WithField("images", len(uploads)).Error("document extraction failed")
		return nil, upstreamErr(err)
	}
	b.logger.WithField("reply_len", len(reply)).Debug("document extraction reply")
	return Parse(reply)
}

func upstreamErr(err error) *Error {
	if errors.Is(err, ErrNoAPIKey) {
		return &Error{Kind: KindConfig, Message: msgNotConfigured, Err: err}
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusTooManyRequests:
			return &Error{Kind: KindRateLimited, Message: msgRateLimited, Err: err}
		case http.StatusUnauthorized:
			return &Error{Kind: KindAuth, Message: msgInvalidKey, Err: err}
		case http.StatusBadRequest:
			return &Error{Kind: KindUpstream, Message: "OpenAI error: " + apiErr.Message, Err: err}
		}
	}
	return &Error{Kind: KindUpstream, Message: msgFailed, Err: err}
}

// Parse extracts Fields from a model reply. The first balanced JSON object
// in the text is used, so markdown fences and chatter around it are ignored.
func Parse(reply string) (*Fields, error) {
	if strings.TrimSpace(reply) == "" {
		return nil, &Error{Kind: KindExtraction, Message: msgEmptyReply}
	}
	obj, ok := firstObject(reply)
	if !ok {
		return nil, &Error{Kind: KindExtraction, Message: msgNoJSON}
	}
	var probe struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal([]byte(obj), &probe); err != nil {
		return nil, &Error{Kind: KindExtraction, Message: msgBadJSON, Err: err}
	}
	if probe.Error != nil && probe.Error != "" && probe.Error != false {
		return nil, &Error{Kind: KindExtraction, Message: fmt.Sprint(probe.Error)}
	}
	var f Fields
	if err := json.Unmarshal([]byte(obj), &f); err != nil {
		return nil, &Error{Kind: KindExtraction, Message: msgBadJSON, Err: err}
	}
	f.Genero = normalizeGender(f.Genero)
	return &f, nil
}

// firstObject returns the first balanced {...} in s, skipping braces inside
// JSON strings.
func firstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth, inString, escaped := 0, false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
