package ocr

import "strings"

const promptTemplate = `You are a document data extraction API. Extract the personal information shown on this Colombian ID document{{SIDES}} (Cédula de Ciudadanía, Cédula de Extranjería, Tarjeta de Identidad or Pasaporte).

{{VIEW}}

Respond with ONLY one valid JSON object. No explanations, no markdown, no code fences.

If the image is not a Colombian ID document or cannot be read, respond with:
{"error": "Cannot read document - image may be blurry, rotated, or not a Colombian ID"}

Otherwise return exactly these fields, using null for anything missing or unreadable:
{
  "tipo_identificacion": "CC" | "CE" | "Pasaporte" | "TI",
  "numero_identificacion": "string (ID number)",
  "fecha_expedicion": "YYYY-MM-DD",
  "ciudad_expedicion": "string",
  "primer_nombre": "string (first given name)",
  "segundo_nombre": "string (second given name) or null",
  "primer_apellido": "string (first surname)",
  "segundo_apellido": "string (second surname) or null",
  "fecha_nacimiento": "YYYY-MM-DD",
  "genero": "Masculino" | "Femenino" | "Otro",
  "nacionalidad": "Colombiana" | "string",
  "pais_nacimiento": "Colombia" | "string" or null,
  "ciudad_nacimiento": "string or null",
  "departamento_nacimiento": "string or null"
}

Rules:
- Convert dates printed as "DD MMM YYYY" to "YYYY-MM-DD".
- Colombian names have up to two given names and two surnames; split them accordingly.
- Map M to Masculino and F to Femenino.
- Combine what every image shows.`

// Prompt is the extraction instruction for n images.
func Prompt(n int) string {
	sides, view := "", "You are seeing one side of the document. Extract everything that is visible."
	if n > 1 {
		sides = " (both sides)"
		view = "You are seeing the front and the back of the document. Combine the information from both."
	}
	return strings.NewReplacer("{{SIDES}}", sides, "{{VIEW}}", view).Replace(promptTemplate)
}
