package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRendersRowsInHeaderOrder(t *testing.T) {
	data := Dataset{
		Headers: []string{"student", "day", "status"},
		Rows: []map[string]string{
			{"status": "PRESENT", "student": "Zoé Dupont", "day": "2025-02-05"},
		},
	}

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "student,day,status\nZoé Dupont,2025-02-05,PRESENT\n", string(out))
}

func TestCSVExporterOptions(t *testing.T) {
	data := Dataset{Headers: []string{"a", "b"}, Rows: []map[string]string{{"a": "1", "b": "2"}}}

	out, err := NewCSVExporter(WithSemicolon(), WithBOM()).Render(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("\ufeff")))
	assert.True(t, strings.HasSuffix(string(out), "1;2\n"))
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)

	_, err = NewPDFExporter().Render(Document{})
	assert.Error(t, err)
}

func TestPDFExporterRendersDocument(t *testing.T) {
	doc := Document{
		Issuer:    "École PEG",
		Title:     "Facture n° 1",
		Reference: []string{"Date: 2025-02-01"},
		Addressee: []string{"Zoé Dupont", "Rue du Rhône 12", "1204 Genève"},
		Table: Dataset{
			Headers: []string{"Description", "Montant"},
			Rows:    []map[string]string{{"Description": "Cours A1", "Montant": "120.50"}},
		},
		Widths:  []float64{150, 40},
		Summary: [][2]string{{"Total", "120.50 CHF"}},
	}

	out, err := NewPDFExporter().Render(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
