package services

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seismic-reports-scraper/internal/models"
)

func TestCSVExporter_Export(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sismos.csv")

	events := []models.SeismicEvent{
		{
			ID:            "evt_1",
			Reference:     "12 km al SO de Lomas, Caraveli - Arequipa",
			ReportURL:     "https://ultimosismo.igp.gob.pe/evento/sismo-8905",
			ReportedAt:    "21/08/2026 14:05:33",
			MagnitudeText: "4.1",
		},
		{
			ID:            "evt_2",
			Reference:     "20 km al NO de Chimbote, Santa - Ancash",
			ReportedAt:    "21/08/2026 09:12:07",
			MagnitudeText: "3.6",
		},
	}

	require.NoError(t, NewCSVExporter().Export(events, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3, "header plus one record per event")
	assert.Equal(t, models.CSVHeader(), records[0])
	assert.Equal(t, "evt_1", records[1][0])
	assert.Equal(t, "4.1", records[1][4])
	assert.Equal(t, "", records[2][2], "missing report URL is an empty column")
}

func TestCSVExporter_EmptySliceWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sismos.csv")

	require.NoError(t, NewCSVExporter().Export(nil, path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no file should be created for zero events")
}

func TestCSVExporter_BadPath(t *testing.T) {
	events := []models.SeismicEvent{{ID: "evt_1"}}
	err := NewCSVExporter().Export(events, filepath.Join(t.TempDir(), "missing", "sismos.csv"))
	assert.Error(t, err)
}
