// Package i18n holds the user-facing messages of the CRM in Spanish (default)
// and English.
package i18n

import (
	"context"

	"golang.org/x/text/language"
)

const DefaultLang = "es"

type ctxKey struct{}

var messages = map[string]map[string]string{
	"es": {
		"required":                 "Campo requerido",
		"invalid_email":            "Correo electrónico inválido",
		"invalid_date":             "Fecha inválida (AAAA-MM-DD)",
		"invalid_number":           "Número inválido",
		"must_be_positive":         "Debe ser un valor positivo",
		"invalid_option":           "Opción inválida",
		"resource_required":        "Especifique el recurso cuando depende de tercero",
		"duplicate_client":         "El documento o correo electrónico ya está registrado",
		"client_create_failed":     "Error al crear el cliente. Por favor, intente nuevamente.",
		"update_failed":            "Error al actualizar el campo",
		"load_failed":              "Error al cargar los datos",
		"ocr_no_file":              "No se proporcionó ningún archivo",
		"ocr_max_files":            "Máximo 2 imágenes permitidas",
		"ocr_file_too_large":       "El archivo es demasiado grande (máx. 10MB)",
		"ocr_invalid_type":         "Tipo de archivo no permitido (solo JPEG o PNG)",
		"ocr_single_image_warning": "Solo se cargó una imagen. Para mejores resultados cargue ambos lados del documento.",
		"ocr_only_first_step":      "La extracción solo está disponible en el paso de identificación",
		"invalid_credentials":      "Credenciales inválidas",
		"yes":                      "Sí",
		"no":                       "No",
		"sold":                     "Vendido",
		"available":                "Disponible",
	},
	"en": {
		"required":                 "Required",
		"invalid_email":            "Invalid email address",
		"invalid_date":             "Invalid date (YYYY-MM-DD)",
		"invalid_number":           "Invalid number",
		"must_be_positive":         "Must be a positive value",
		"invalid_option":           "Invalid option",
		"resource_required":        "Specify the resource when funds depend on a third party",
		"duplicate_client":         "The document number or email is already registered",
		"client_create_failed":     "Could not create the client. Please try again.",
		"update_failed":            "Could not update the field",
		"load_failed":              "Could not load data",
		"ocr_no_file":              "No file provided",
		"ocr_max_files":            "Maximum 2 files allowed",
		"ocr_file_too_large":       "File too large (max 10MB)",
		"ocr_invalid_type":         "Invalid file type (JPEG or PNG only)",
		"ocr_single_image_warning": "Only one image was provided. Upload both sides of the document for best results.",
		"ocr_only_first_step":      "Document extraction is only available on the identification step",
		"invalid_credentials":      "Invalid credentials",
		"yes":                      "Yes",
		"no":                       "No",
		"sold":                     "Sold",
		"available":                "Available",
	},
}

// T translates code for lang. Unknown languages fall back to Spanish, unknown
// codes to the code itself.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[DefaultLang][code]; ok {
		return s
	}
	return code
}

// Supported reports whether lang has a message table.
func Supported(lang string) bool {
	_, ok := messages[lang]
	return ok
}

// DetectLanguage picks the first supported language of an Accept-Language
// header, defaulting to Spanish.
func DetectLanguage(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil {
		return DefaultLang
	}
	for _, tag := range tags {
		base, _ := tag.Base()
		if Supported(base.String()) {
			return base.String()
		}
	}
	return DefaultLang
}

// WithLang stores the request language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// LangFrom returns the language stored by WithLang, or DefaultLang.
func LangFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return DefaultLang
}
