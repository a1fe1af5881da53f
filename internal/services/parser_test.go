package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `
<html><body>
<table class="table">
  <thead>
    <tr><th>Referencia</th><th></th><th>Fecha y hora</th><th>Magnitud</th></tr>
  </thead>
  <tbody>
    <tr>
      <td><a href="/evento/sismo-8905">12 km al SO de
          Lomas,   Caraveli
          - Arequipa</a></td>
      <td>IGP/CENSIS/RS 2026-0612</td>
      <td>21/08/2026 14:05:33</td>
      <td>4.1</td>
    </tr>
    <tr>
      <td>20 km al NO de Chimbote, Santa - Ancash</td>
      <td>IGP/CENSIS/RS 2026-0611</td>
      <td>21/08/2026 09:12:07</td>
      <td>3,6</td>
    </tr>
    <tr><th>fila informativa sin datos</th></tr>
    <tr>
      <td>Evento en revision</td>
    </tr>
  </tbody>
</table>
</body></html>`

func TestTableParser_Parse(t *testing.T) {
	parser, err := NewTableParser("https://ultimosismo.igp.gob.pe")
	require.NoError(t, err)

	result, err := parser.Parse(samplePage, 10)
	require.NoError(t, err)

	assert.Equal(t, 4, result.RowsFound)
	assert.Equal(t, 1, result.RowsSkipped, "header-only row inside tbody is skipped")
	require.Len(t, result.Events, 3)

	first := result.Events[0]
	assert.Equal(t, "12 km al SO de Lomas, Caraveli - Arequipa", first.Reference,
		"wrapped reference text is collapsed to single spaces")
	assert.Equal(t, "https://ultimosismo.igp.gob.pe/evento/sismo-8905", first.ReportURL,
		"relative report link is resolved against the base URL")
	assert.Equal(t, "21/08/2026 14:05:33", first.ReportedAt)
	assert.False(t, first.ReportedTime.IsZero())
	assert.Equal(t, 4.1, first.Magnitude)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.ScrapedAt.IsZero())

	second := result.Events[1]
	assert.Empty(t, second.ReportURL, "row without a link has no report URL")
	assert.Equal(t, 3.6, second.Magnitude, "comma decimal separator is handled")

	// Row with only a reference cell still yields an event with empty fields
	third := result.Events[2]
	assert.Equal(t, "Evento en revision", third.Reference)
	assert.Empty(t, third.ReportedAt)
	assert.Empty(t, third.MagnitudeText)
	assert.Equal(t, 0.0, third.Magnitude)
}

func TestTableParser_Limit(t *testing.T) {
	parser, err := NewTableParser("https://ultimosismo.igp.gob.pe")
	require.NoError(t, err)

	result, err := parser.Parse(samplePage, 1)
	require.NoError(t, err)

	assert.Len(t, result.Events, 1)
	assert.Equal(t, 4, result.RowsFound, "row count reflects the whole table")
}

func TestTableParser_NoTable(t *testing.T) {
	parser, err := NewTableParser("https://ultimosismo.igp.gob.pe")
	require.NoError(t, err)

	result, err := parser.Parse("<html><body><p>mantenimiento</p></body></html>", 10)
	require.NoError(t, err)

	assert.Empty(t, result.Events)
	assert.Zero(t, result.RowsFound)
}

func TestTableParser_DeterministicIDs(t *testing.T) {
	parser, err := NewTableParser("https://ultimosismo.igp.gob.pe")
	require.NoError(t, err)

	a, err := parser.Parse(samplePage, 10)
	require.NoError(t, err)
	b, err := parser.Parse(samplePage, 10)
	require.NoError(t, err)

	require.Equal(t, len(a.Events), len(b.Events))
	for i := range a.Events {
		assert.Equal(t, a.Events[i].ID, b.Events[i].ID,
			"re-scraping the same rows must produce the same IDs")
	}
}
