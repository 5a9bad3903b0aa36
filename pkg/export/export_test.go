package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterPadsShortRows(t *testing.T) {
	out, err := NewCSVExporter().Render(Table{
		Columns: []string{"Code", "Name", "Credits"},
		Rows: [][]string{
			{"CS-201", "Databases", "3"},
			{"CS-202"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Code,Name,Credits\nCS-201,Databases,3\nCS-202,,\n", string(out))
}

func TestCSVExporterRejectsEmptyAndOversizedInput(t *testing.T) {
	_, err := NewCSVExporter().Render(Table{})
	require.Error(t, err)

	_, err = NewCSVExporter().Render(Table{
		Columns: []string{"Code"},
		Rows:    [][]string{{"CS-201", "extra"}},
	})
	require.Error(t, err)
}

func TestPDFExporterRendersDocument(t *testing.T) {
	out, err := NewPDFExporter().Render(Table{
		Title:   "Computer Science students",
		Columns: []string{"Admission No", "National ID", "First Name", "Last Name", "Email", "Programme", "Admitted", "Active"},
		Rows:    [][]string{{"ADM-001", "12345678", "Brian", "Otieno", "brian@example.com", "Computer Science", "2026-01-10", "true"}},
	})
	require.NoError(t, err)
	assert.True(t, len(out) > 4)
	assert.Equal(t, "%PDF", string(out[:4]))

	_, err = NewPDFExporter().Render(Table{})
	require.Error(t, err)
}
