package formatter_test

import (
	"encoding/json"
	"strings"
	"testing"

	"reservation-controller/formatter"
	"reservation-controller/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStats() models.Stats {
	return models.Stats{
		MinHour:   7,
		MaxHour:   10,
		Capacity:  10,
		Occupancy: map[int]int{7: 6, 8: 9, 9: 9, 10: 3},
		Counters:  models.Counters{AcceptedExact: 2, Rescheduled: 1, Denied: 4},
	}
}

func TestFormatText(t *testing.T) {
	tests := map[string]struct {
		stats    models.Stats
		contains []string
	}{
		"WithReservations": {
			stats: sampleStats(),
			contains: []string{
				"===== REPORTE FINAL DEL CONTROLADOR =====",
				"07:00 : personas=6/10",
				"10:00 : personas=3/10",
				"Horas pico (mayor ocupación = 9 personas): 8 9\n",
				"Horas de menor ocupación (=3 personas): 10\n",
				"Solicitudes negadas: 4",
				"Solicitudes aceptadas en su hora: 2",
				"Solicitudes reprogramadas: 1",
			},
		},
		"EmptyRun": {
			stats: models.Stats{MinHour: 7, MaxHour: 9, Capacity: 5, Occupancy: map[int]int{}},
			contains: []string{
				"Horas pico (mayor ocupación = 0 personas): 7 8 9\n",
				"Horas de menor ocupación (=0 personas): 7 8 9\n",
				"Solicitudes negadas: 0",
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			output := formatter.FormatText(tc.stats)
			for _, expected := range tc.contains {
				assert.Contains(t, output, expected)
			}
		})
	}
}

func TestFormatJSON(t *testing.T) {
	output := formatter.FormatJSON(sampleStats())

	var data formatter.ReportData
	require.NoError(t, json.Unmarshal([]byte(output), &data))
	assert.Len(t, data.Hours, 4)
	assert.Equal(t, formatter.Extreme{People: 9, Hours: []int{8, 9}}, data.Peak)
	assert.Equal(t, formatter.Extreme{People: 3, Hours: []int{10}}, data.Lowest)
	assert.Equal(t, 7, data.Processed)
	assert.Equal(t, 4, data.Counters.Denied)
}

func TestFormatCSV(t *testing.T) {
	output := formatter.FormatCSV(sampleStats())
	lines := strings.Split(strings.TrimSpace(output), "\n")

	require.Len(t, lines, 1+4+3)
	assert.Equal(t, "Hour,People,Capacity,Peak,Lowest", lines[0])
	assert.Equal(t, "08:00,9,10,Yes,No", lines[2])
	assert.Equal(t, "10:00,3,10,No,Yes", lines[4])
	assert.Equal(t, "Denied,4,,,", lines[7])
}

func TestFormatReportDispatch(t *testing.T) {
	stats := sampleStats()
	assert.Equal(t, formatter.FormatCSV(stats), formatter.FormatReport(stats, "csv"))
	assert.Equal(t, formatter.FormatJSON(stats), formatter.FormatReport(stats, "json"))
	assert.Equal(t, formatter.FormatText(stats), formatter.FormatReport(stats, "unknown"))

	assert.True(t, formatter.ValidFormat("text"))
	assert.False(t, formatter.ValidFormat("xml"))
}

func TestFormatHour(t *testing.T) {
	tests := map[string]struct {
		exits    []models.Reservation
		enters   []models.Reservation
		expected string
	}{
		"NoChanges": {
			expected: "\n=== Ha transcurrido una hora, son las 8 hr ===\n" +
				"  No hay cambios de familias en esta hora.\n",
		},
		"ExitsBeforeEntries": {
			exits:  []models.Reservation{models.NewReservation("Lopez", 6, 6)},
			enters: []models.Reservation{models.NewReservation("Diaz", 2, 8), models.NewReservation("Ruiz", 3, 8)},
			expected: "\n=== Ha transcurrido una hora, son las 8 hr ===\n" +
				"  Familia Lopez sale del parque (6 personas)\n" +
				"  Familia Diaz entra al parque (2 personas)\n" +
				"  Familia Ruiz entra al parque (3 personas)\n",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, formatter.FormatHour(8, tc.exits, tc.enters))
		})
	}
}
