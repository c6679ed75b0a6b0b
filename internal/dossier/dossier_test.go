package dossier

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/salescrm/internal/catalog"
	"github.com/diewo77/salescrm/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullClient(t *testing.T) *models.Client {
	t.Helper()
	c := &models.Client{}
	for _, sec := range catalog.Sections {
		for _, col := range catalog.SectionColumns(sec) {
			var v any
			switch {
			case col.Kind == catalog.KindBool:
				v = true
			case col.Kind.Numeric():
				v = 1500000.0
			case col.Kind == catalog.KindDate:
				v = "1990-05-01"
			default:
				v = "valor"
			}
			require.NoError(t, c.SetField(col.Key, v))
		}
	}
	return c
}

func TestRender_AllSectionsOnce(t *testing.T) {
	doc, err := Render(fullClient(t), "es")
	require.NoError(t, err)
	text := doc.Text()
	for _, sec := range catalog.Sections {
		count := 0
		for _, l := range doc.Lines {
			if l.Text == sec.Title() {
				count++
			}
		}
		assert.Equal(t, 1, count, sec.Title())
	}
	assert.Contains(t, text, "Persona Expuesta Políticamente (PEP): Sí")
	assert.Contains(t, text, "Total Activos: 1.500.000")
	assert.Equal(t, Title, doc.Lines[0].Text)
	assert.Equal(t, "valor valor valor valor", doc.Lines[1].Text)

	var buf bytes.Buffer
	_, err = doc.WriteTo(&buf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestRender_PlaceholdersAndName(t *testing.T) {
	no := false
	c := &models.Client{PEP: &no}
	doc, err := Render(c, "es")
	require.NoError(t, err)
	assert.Equal(t, "Sin nombre", doc.Lines[1].Text)
	assert.Contains(t, doc.Text(), "Segundo Nombre: -")
	assert.Contains(t, doc.Text(), "Familiar de PEP: -")
	assert.Contains(t, doc.Text(), "Persona Expuesta Políticamente (PEP): No")
	assert.Equal(t, 1, doc.Pages)
}

func TestRender_Layout(t *testing.T) {
	doc, err := Render(&models.Client{}, "en")
	require.NoError(t, err)
	assert.Equal(t, TitleY, doc.Lines[0].Y)
	assert.Equal(t, NameY, doc.Lines[1].Y)
	assert.Equal(t, ContentY, doc.Lines[2].Y)
	assert.Equal(t, ContentY+HeaderGap, doc.Lines[3].Y)
	assert.Equal(t, ContentY+HeaderGap+LineHeight, doc.Lines[4].Y)
}

func TestRender_LongContentPaginates(t *testing.T) {
	c := fullClient(t)
	long := strings.Repeat("texto largo ", 400)
	c.DireccionResidencia = &long
	doc, err := Render(c, "es")
	require.NoError(t, err)
	assert.Greater(t, doc.Pages, 1)
	last := doc.Lines[len(doc.Lines)-1]
	assert.Equal(t, doc.Pages, last.Page)
	for _, l := range doc.Lines {
		if l.Page > 1 {
			assert.GreaterOrEqual(t, l.Y, TitleY)
		}
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2025, 3, 9, 15, 0, 0, 0, time.UTC)
	ana, gomez := "Ana", "Gómez"
	assert.Equal(t, "cliente_Ana_Gómez_2025-03-09.pdf", Filename(&models.Client{PrimerNombre: &ana, PrimerApellido: &gomez}, now))
	assert.Equal(t, "cliente_sin_nombre_sin_apellido_2025-03-09.pdf", Filename(&models.Client{}, now))
}
