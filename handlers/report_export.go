package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/xuri/excelize/v2"
	"p9e.in/chantier/config"
	"p9e.in/chantier/models"
	"p9e.in/chantier/pkg/planning"
)

// exportColumn describes one column of a tabular export.
type exportColumn struct {
	Key   string
	Label string
}

// exportTable is the intermediate form shared by the Excel and CSV writers.
type exportTable struct {
	Title   string
	Columns []exportColumn
	Rows    []map[string]interface{}
}

// ExportWeekPlanningExcel downloads one planning week as an Excel workbook,
// one row per record, ordered Dimanche through Samedi.
func ExportWeekPlanningExcel(w http.ResponseWriter, r *http.Request) {
	table, project, ok := buildWeekTable(w, r)
	if !ok {
		return
	}

	excelFile, err := createExcelFile(table)
	if err != nil {
		http.Error(w, "failed to generate Excel file", http.StatusInternalServerError)
		return
	}
	buffer, err := excelFile.WriteToBuffer()
	if err != nil {
		http.Error(w, "failed to write Excel file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("planning_%s_%s.xlsx", sanitizeFilename(project.Code), time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

// ExportWeekPlanningCSV downloads one planning week as CSV.
func ExportWeekPlanningCSV(w http.ResponseWriter, r *http.Request) {
	table, project, ok := buildWeekTable(w, r)
	if !ok {
		return
	}

	csvData, err := createCSVFile(table)
	if err != nil {
		http.Error(w, "failed to generate CSV file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("planning_%s_%s.csv", sanitizeFilename(project.Code), time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(csvData)))
	w.WriteHeader(http.StatusOK)
	w.Write(csvData)
}

// ExportJournalExcel downloads the journal entries of a project, optionally
// bounded with ?from=&to=, as an Excel workbook.
func ExportJournalExcel(w http.ResponseWriter, r *http.Request) {
	table, project, ok := buildJournalTable(w, r)
	if !ok {
		return
	}

	excelFile, err := createExcelFile(table)
	if err != nil {
		http.Error(w, "failed to generate Excel file", http.StatusInternalServerError)
		return
	}
	buffer, err := excelFile.WriteToBuffer()
	if err != nil {
		http.Error(w, "failed to write Excel file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("journal_%s_%s.xlsx", sanitizeFilename(project.Code), time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

// buildWeekTable partitions the project's records into the requested week and
// flattens the buckets into export rows with resolved reference names.
func buildWeekTable(w http.ResponseWriter, r *http.Request) (*exportTable, *models.Project, bool) {
	params := mux.Vars(r)
	projectID, err := uuid.Parse(params["id"])
	if err != nil {
		http.Error(w, "invalid project id", http.StatusBadRequest)
		return nil, nil, false
	}
	ref, ok := parseRefDate(w, r)
	if !ok {
		return nil, nil, false
	}

	var project models.Project
	if err := config.DB.First(&project, "id = ?", projectID).Error; err != nil {
		http.Error(w, "project not found", http.StatusNotFound)
		return nil, nil, false
	}

	store := NewPlanningStore(config.DB)
	records, err := store.ListRecords(r.Context(), projectID.String())
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return nil, nil, false
	}
	week := planning.Partition(records, ref, log.Default())

	locations := lookupNames(&models.Location{}, projectID)
	subcontractors := lookupNames(&models.Subcontractor{}, projectID)
	signages := lookupNames(&models.Signage{}, projectID)
	activities := lookupActivityNames(projectID)

	table := &exportTable{
		Title: fmt.Sprintf("Planning %s — semaine du %s", project.Name, week.Start.Format(planning.DateLayout)),
		Columns: []exportColumn{
			{Key: "day", Label: "Jour"},
			{Key: "date", Label: "Date"},
			{Key: "location", Label: "Localisation"},
			{Key: "subcontractor", Label: "Sous-traitant"},
			{Key: "signage", Label: "Signalisation"},
			{Key: "start", Label: "Début"},
			{Key: "end", Label: "Fin"},
			{Key: "activities", Label: "Activités"},
			{Key: "lab", Label: "Laboratoire"},
			{Key: "note", Label: "Note"},
		},
	}

	for _, day := range planning.WeekOrder() {
		for _, rec := range week.Buckets[day] {
			names := make([]string, 0, len(rec.ActivityIDs))
			for _, id := range rec.ActivityIDs {
				if name, ok := activities[id]; ok {
					names = append(names, name)
				} else {
					names = append(names, fmt.Sprintf("#%d", id))
				}
			}
			lab := ""
			if rec.LabRequired {
				lab = fmt.Sprintf("oui (%v)", rec.LabQuantity)
			}
			table.Rows = append(table.Rows, map[string]interface{}{
				"day":           day.String(),
				"date":          rec.Date,
				"location":      refName(locations, rec.LocationID),
				"subcontractor": refName(subcontractors, rec.SubcontractorID),
				"signage":       refName(signages, rec.SignageID),
				"start":         rec.StartTime,
				"end":           rec.EndTime,
				"activities":    strings.Join(names, ", "),
				"lab":           lab,
				"note":          rec.Note,
			})
		}
	}
	return table, &project, true
}

func buildJournalTable(w http.ResponseWriter, r *http.Request) (*exportTable, *models.Project, bool) {
	params := mux.Vars(r)
	projectID, err := uuid.Parse(params["id"])
	if err != nil {
		http.Error(w, "invalid project id", http.StatusBadRequest)
		return nil, nil, false
	}

	var project models.Project
	if err := config.DB.First(&project, "id = ?", projectID).Error; err != nil {
		http.Error(w, "project not found", http.StatusNotFound)
		return nil, nil, false
	}

	query := config.DB.Where("project_id = ?", projectID)
	if from := r.URL.Query().Get("from"); from != "" {
		query = query.Where("date >= ?", from)
	}
	if to := r.URL.Query().Get("to"); to != "" {
		query = query.Where("date <= ?", to)
	}

	var entries []models.JournalEntry
	if err := query.Order("date").Find(&entries).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return nil, nil, false
	}

	table := &exportTable{
		Title: fmt.Sprintf("Journal de chantier — %s", project.Name),
		Columns: []exportColumn{
			{Key: "date", Label: "Date"},
			{Key: "supervisor", Label: "Chef de chantier"},
			{Key: "weather", Label: "Météo"},
			{Key: "temperature", Label: "Température"},
			{Key: "outside", Label: "Hors zone"},
			{Key: "notes", Label: "Notes"},
		},
	}
	for _, entry := range entries {
		outside := ""
		if entry.OutsideGeofence {
			outside = "oui"
		}
		temperature := ""
		if entry.TemperatureC != nil {
			temperature = fmt.Sprintf("%.1f", *entry.TemperatureC)
		}
		notes := ""
		if entry.Notes != nil {
			notes = *entry.Notes
		}
		table.Rows = append(table.Rows, map[string]interface{}{
			"date":        string(entry.Date),
			"supervisor":  entry.SupervisorName,
			"weather":     entry.WeatherCondition,
			"temperature": temperature,
			"outside":     outside,
			"notes":       notes,
		})
	}
	return table, &project, true
}

// lookupNames loads id->name for one reference model of a project. Lookup
// failures just leave ids unresolved in the export.
func lookupNames(model interface{}, projectID uuid.UUID) map[string]string {
	type row struct {
		ID   uuid.UUID
		Name string
	}
	var rows []row
	if err := config.DB.Model(model).Where("project_id = ?", projectID).Find(&rows).Error; err != nil {
		log.Printf("export: reference lookup failed: %v", err)
		return nil
	}
	names := make(map[string]string, len(rows))
	for _, r := range rows {
		names[r.ID.String()] = r.Name
	}
	return names
}

func lookupActivityNames(projectID uuid.UUID) map[int64]string {
	var activities []models.Activity
	if err := config.DB.Where("project_id = ?", projectID).Find(&activities).Error; err != nil {
		log.Printf("export: activity lookup failed: %v", err)
		return nil
	}
	names := make(map[int64]string, len(activities))
	for _, a := range activities {
		names[a.ID] = a.Name
	}
	return names
}

func refName(names map[string]string, id *string) string {
	if id == nil {
		return ""
	}
	if name, ok := names[*id]; ok {
		return name
	}
	return *id
}

// createExcelFile renders an export table as a styled workbook.
func createExcelFile(table *exportTable) (*excelize.File, error) {
	f := excelize.NewFile()
	sheetName := "Export"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 16,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "center",
		},
	})
	f.SetCellValue(sheetName, "A1", table.Title)
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	f.SetRowHeight(sheetName, 1, 30)

	f.SetCellValue(sheetName, "A2", fmt.Sprintf("Généré le %s", time.Now().Format("2006-01-02 15:04:05")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#4472C4"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for colIdx, col := range table.Columns {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 4)
		f.SetCellValue(sheetName, cell, col.Label)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
		f.SetColWidth(sheetName, columnIndexToLetter(colIdx+1), columnIndexToLetter(colIdx+1), 20)
	}

	dataStyle, _ := f.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Color: "CCCCCC", Style: 1},
			{Type: "right", Color: "CCCCCC", Style: 1},
			{Type: "top", Color: "CCCCCC", Style: 1},
			{Type: "bottom", Color: "CCCCCC", Style: 1},
		},
	})

	for rowIdx, row := range table.Rows {
		for colIdx, col := range table.Columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+5)
			f.SetCellValue(sheetName, cell, row[col.Key])
			f.SetCellStyle(sheetName, cell, cell, dataStyle)
		}
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

// createCSVFile renders an export table as CSV.
func createCSVFile(table *exportTable) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{}
	for _, col := range table.Columns {
		headers = append(headers, col.Label)
	}
	writer.Write(headers)

	for _, row := range table.Rows {
		record := []string{}
		for _, col := range table.Columns {
			record = append(record, fmt.Sprintf("%v", row[col.Key]))
		}
		writer.Write(record)
	}

	writer.Flush()
	return buf.Bytes(), writer.Error()
}

func sanitizeFilename(filename string) string {
	replacements := map[rune]rune{
		'/':  '_',
		'\\': '_',
		':':  '_',
		'*':  '_',
		'?':  '_',
		'"':  '_',
		'<':  '_',
		'>':  '_',
		'|':  '_',
		' ':  '_',
	}

	result := []rune{}
	for _, char := range filename {
		if replacement, exists := replacements[char]; exists {
			result = append(result, replacement)
		} else {
			result = append(result, char)
		}
	}
	return string(result)
}

func columnIndexToLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+(col%26))) + result
		col /= 26
	}
	return result
}
