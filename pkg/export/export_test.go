package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Monthly Attendance March 2024",
		Summary: []string{"Working days: 3", "Average attendance: 55.56%"},
		Headers: []string{"Student ID", "Name", "Present Days", "Attendance (%)"},
		Rows: [][]string{
			{"24MDAMP101", "Asha, K", "3", "100.00"},
			{"24MDAMP102", "Ravi"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Student ID", "Name", "Present Days", "Attendance (%)"}, records[0])
	assert.Equal(t, "Asha, K", records[1][1])
	assert.Equal(t, []string{"24MDAMP102", "Ravi", "", ""}, records[2])
}

func TestExportersRejectBadDatasets(t *testing.T) {
	renderers := map[string]Renderer{
		"csv":  NewCSVExporter(),
		"pdf":  NewPDFExporter("Pravah"),
		"xlsx": NewXLSXExporter(""),
	}
	for name, renderer := range renderers {
		_, err := renderer.Render(Dataset{})
		assert.Error(t, err, name)

		_, err = renderer.Render(Dataset{Headers: []string{"A"}, Rows: [][]string{{"1", "2"}}})
		assert.Error(t, err, name)
	}
}

func TestPDFExporterRender(t *testing.T) {
	data := sampleDataset()
	for i := 0; i < 80; i++ {
		data.Rows = append(data.Rows, []string{fmt.Sprintf("S%03d", i), "Student", "1", "33.33"})
	}

	out, err := NewPDFExporter("Pravah").Render(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFExporterLandscapeForWideTables(t *testing.T) {
	out, err := NewPDFExporter("").Render(Dataset{Headers: []string{"A", "B", "C", "D", "E", "F", "G"}})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter("Report").Render(sampleDataset())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Report")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 6)
	assert.Equal(t, "Monthly Attendance March 2024", rows[0][0])
	assert.Equal(t, "Working days: 3", rows[1][0])
	assert.Equal(t, []string{"Student ID", "Name", "Present Days", "Attendance (%)"}, rows[4])
	assert.Equal(t, "24MDAMP101", rows[5][0])
	assert.Equal(t, "Asha, K", rows[5][1])

	present, err := f.GetCellValue("Report", "C6")
	require.NoError(t, err)
	assert.Equal(t, "3", present)
}
