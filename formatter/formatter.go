package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"reservation-controller/models"
)

// Supported final report formats.
const (
	FormatNameText = "text"
	FormatNameJSON = "json"
	FormatNameCSV  = "csv"
)

// ValidFormat reports whether name is a supported report format.
func ValidFormat(name string) bool {
	switch name {
	case FormatNameText, FormatNameJSON, FormatNameCSV:
		return true
	}
	return false
}

// ReportData holds prepared statistics used by all final report formatters
type ReportData struct {
	MinHour   int             `json:"min_hour"`
	MaxHour   int             `json:"max_hour"`
	Capacity  int             `json:"capacity"`
	Hours     []HourlyData    `json:"hours"`
	Peak      Extreme         `json:"peak"`
	Lowest    Extreme         `json:"lowest"`
	Counters  models.Counters `json:"requests"`
	Processed int             `json:"processed"`
}

// HourlyData is the occupancy of one simulated hour
type HourlyData struct {
	Hour   int `json:"hour"`
	People int `json:"people"`
}

// Extreme lists the hours sharing the highest or lowest occupancy
type Extreme struct {
	People int   `json:"people"`
	Hours  []int `json:"hours"`
}

// prepareReportData extracts and organizes run statistics for formatting
func prepareReportData(stats models.Stats) *ReportData {
	data := &ReportData{
		MinHour:  stats.MinHour,
		MaxHour:  stats.MaxHour,
		Capacity: stats.Capacity,
		Counters: stats.Counters,
		Processed: stats.Counters.AcceptedExact +
			stats.Counters.Rescheduled +
			stats.Counters.Denied,
	}

	for h := stats.MinHour; h <= stats.MaxHour; h++ {
		data.Hours = append(data.Hours, HourlyData{Hour: h, People: stats.Occupancy[h]})
	}
	if len(data.Hours) == 0 {
		return data
	}

	data.Peak.People = data.Hours[0].People
	data.Lowest.People = data.Hours[0].People
	for _, hd := range data.Hours {
		data.Peak.People = max(data.Peak.People, hd.People)
		data.Lowest.People = min(data.Lowest.People, hd.People)
	}
	for _, hd := range data.Hours {
		if hd.People == data.Peak.People {
			data.Peak.Hours = append(data.Peak.Hours, hd.Hour)
		}
		if hd.People == data.Lowest.People {
			data.Lowest.Hours = append(data.Lowest.Hours, hd.Hour)
		}
	}
	return data
}

// FormatReport renders the final report in the named format, falling back to text
func FormatReport(stats models.Stats, format string) string {
	switch format {
	case FormatNameJSON:
		return FormatJSON(stats)
	case FormatNameCSV:
		return FormatCSV(stats)
	default:
		return FormatText(stats)
	}
}

// FormatText returns the text representation of the final report
func FormatText(stats models.Stats) string {
	data := prepareReportData(stats)
	var sb strings.Builder

	sb.WriteString("\n===== REPORTE FINAL DEL CONTROLADOR =====\n")
	for _, hd := range data.Hours {
		sb.WriteString(formatTextLine(hd, data.Capacity))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("Horas pico (mayor ocupación = %d personas): %s\n",
		data.Peak.People, joinHours(data.Peak.Hours)))
	sb.WriteString(fmt.Sprintf("Horas de menor ocupación (=%d personas): %s\n",
		data.Lowest.People, joinHours(data.Lowest.Hours)))
	sb.WriteString(fmt.Sprintf("Solicitudes negadas: %d\n", data.Counters.Denied))
	sb.WriteString(fmt.Sprintf("Solicitudes aceptadas en su hora: %d\n", data.Counters.AcceptedExact))
	sb.WriteString(fmt.Sprintf("Solicitudes reprogramadas: %d\n", data.Counters.Rescheduled))

	return sb.String()
}

// FormatJSON returns the JSON representation of the final report
func FormatJSON(stats models.Stats) string {
	data := prepareReportData(stats)
	jsonBytes, _ := json.MarshalIndent(data, "", "  ")
	return string(jsonBytes) + "\n"
}

// FormatCSV returns the CSV representation of the final report, one row per hour
func FormatCSV(stats models.Stats) string {
	data := prepareReportData(stats)
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	writer.Write([]string{"Hour", "People", "Capacity", "Peak", "Lowest"})
	for _, hd := range data.Hours {
		writer.Write([]string{
			fmt.Sprintf("%02d:00", hd.Hour),
			fmt.Sprintf("%d", hd.People),
			fmt.Sprintf("%d", data.Capacity),
			yesNo(hd.People == data.Peak.People),
			yesNo(hd.People == data.Lowest.People),
		})
	}
	writer.Write([]string{"Accepted", fmt.Sprintf("%d", data.Counters.AcceptedExact), "", "", ""})
	writer.Write([]string{"Rescheduled", fmt.Sprintf("%d", data.Counters.Rescheduled), "", "", ""})
	writer.Write([]string{"Denied", fmt.Sprintf("%d", data.Counters.Denied), "", "", ""})

	writer.Flush()
	return sb.String()
}

// FormatHour renders the transition report printed on every clock tick.
// Exits are listed before entries.
func FormatHour(hour int, exits, enters []models.Reservation) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n=== Ha transcurrido una hora, son las %d hr ===\n", hour))

	for _, r := range exits {
		sb.WriteString(fmt.Sprintf("  Familia %s sale del parque (%d personas)\n", r.Family, r.People))
	}
	for _, r := range enters {
		sb.WriteString(fmt.Sprintf("  Familia %s entra al parque (%d personas)\n", r.Family, r.People))
	}
	if len(exits) == 0 && len(enters) == 0 {
		sb.WriteString("  No hay cambios de familias en esta hora.\n")
	}

	return sb.String()
}

// formatTextLine formats a single hour line for text output
func formatTextLine(hd HourlyData, capacity int) string {
	return fmt.Sprintf("%02d:00 : personas=%d/%d", hd.Hour, hd.People, capacity)
}

func joinHours(hours []int) string {
	sorted := append([]int(nil), hours...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, h := range sorted {
		parts[i] = fmt.Sprintf("%d", h)
	}
	return strings.Join(parts, " ")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
