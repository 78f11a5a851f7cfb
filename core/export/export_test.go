package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"datafusion/core/reader"
	"datafusion/core/table"
)

func exportTable(t *testing.T) *table.Table {
	t.Helper()
	when := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tbl, err := table.FromColumns([]table.Column{
		{Name: "id", Values: []table.Value{table.Number(1), table.Number(2)}},
		{Name: "name", Values: []table.Value{table.Text("ada"), table.Missing()}},
		{Name: "joined", Values: []table.Value{table.Time(when), table.Missing()}},
	})
	require.NoError(t, err)
	return tbl
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, exportTable(t)))

	want := "id,name,joined\n" +
		"1,ada,2024-06-01T12:00:00Z\n" +
		"2,,\n"
	assert.Equal(t, want, buf.String())
}

func TestCSVRoundTrip(t *testing.T) {
	tbl := exportTable(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))

	r := reader.New(reader.Config{MaxFileSizeMB: 10})
	got, err := r.Read("roundtrip.csv", buf.Bytes(), reader.Options{})
	require.NoError(t, err)

	assert.Equal(t, tbl.Names(), got.Names())
	assert.Equal(t, tbl.NumRows(), got.NumRows())
	assert.Equal(t, table.Number(1), got.Value(0, "id"))
	assert.True(t, got.Value(1, "name").IsMissing())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, exportTable(t)))

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)

	assert.Equal(t, float64(1), rows[0]["id"])
	assert.Equal(t, "ada", rows[0]["name"])
	assert.Equal(t, "2024-06-01T12:00:00Z", rows[0]["joined"])
	assert.Nil(t, rows[1]["name"], "missing exports as null")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, exportTable(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Data"}, f.GetSheetList())

	rows, err := f.GetRows("Data")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, []string{"id", "name", "joined"}, rows[0])
	assert.Equal(t, "ada", rows[1][1])

	// Header row is bold.
	styleID, err := f.GetCellStyle("Data", "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestExporterFormatGating(t *testing.T) {
	tbl := exportTable(t)

	e := New(Config{Formats: "csv"})
	var buf bytes.Buffer
	require.NoError(t, e.Write(&buf, FormatCSV, tbl))

	err := e.Write(&buf, FormatJSON, tbl)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExport)

	err = e.Write(&buf, Format("parquet"), tbl)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExport)
}

func TestFormatMetadata(t *testing.T) {
	assert.Equal(t, ".csv", FormatCSV.Extension())
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
	assert.Equal(t, "application/json", FormatJSON.ContentType())
}
