package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/chantier/config"
	"p9e.in/chantier/pkg/planning"
)

// Week-level planning endpoints. They run the reconciliation engine
// server-side against the database-backed collaborator, so a submitted week
// draft is saved through the exact diff logic remote clients use.

// weekResponse is the partitioned view of one planning week.
type weekResponse struct {
	WeekStart  string                       `json:"weekStart"`
	WeekEnd    string                       `json:"weekEnd"`
	Days       []string                     `json:"days"`
	Buckets    map[string][]planning.Record `json:"buckets"`
	Importable []planning.Record            `json:"importable"`
}

// GetProjectWeekPlanning returns the seven day buckets of the week containing
// ?date= (default today) plus the records importable from other weeks.
func GetProjectWeekPlanning(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	projectID, err := uuid.Parse(params["id"])
	if err != nil {
		http.Error(w, "invalid project id", http.StatusBadRequest)
		return
	}
	ref, ok := parseRefDate(w, r)
	if !ok {
		return
	}

	store := NewPlanningStore(config.DB)
	records, err := store.ListRecords(r.Context(), projectID.String())
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	week := planning.Partition(records, ref, log.Default())
	resp := weekResponse{
		WeekStart:  week.Start.Format(planning.DateLayout),
		WeekEnd:    week.End.Format(planning.DateLayout),
		Buckets:    make(map[string][]planning.Record, 7),
		Importable: planning.Importable(records, ref),
	}
	for _, d := range week.Days {
		resp.Days = append(resp.Days, d.Format(planning.DateLayout))
	}
	for _, day := range planning.WeekOrder() {
		resp.Buckets[day.String()] = week.Buckets[day]
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

type importWeekReq struct {
	Date      string  `json:"date"`
	RecordIDs []int64 `json:"recordIds"`
}

// ImportWeekPlanning previews an import of foreign-week records into the week
// of the given date: clones are re-dated onto the matching weekday and
// candidates colliding on a shared activity are skipped. Nothing is persisted;
// the client folds the clones into its draft and saves explicitly.
func ImportWeekPlanning(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	projectID, err := uuid.Parse(params["id"])
	if err != nil {
		http.Error(w, "invalid project id", http.StatusBadRequest)
		return
	}
	var req importWeekReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	ref, err := time.Parse(planning.DateLayout, req.Date)
	if err != nil {
		http.Error(w, "invalid date: "+req.Date, http.StatusBadRequest)
		return
	}

	store := NewPlanningStore(config.DB)
	records, err := store.ListRecords(r.Context(), projectID.String())
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	importable := planning.Importable(records, ref)
	if len(importable) == 0 {
		http.Error(w, "no records available for import", http.StatusConflict)
		return
	}

	wanted := make(map[int64]bool, len(req.RecordIDs))
	for _, id := range req.RecordIDs {
		wanted[id] = true
	}
	var sources []planning.Record
	for _, rec := range importable {
		if wanted[int64(rec.ID)] {
			sources = append(sources, rec)
		}
	}

	draft := planning.NewDraft(records, ref, log.Default())
	imported := draft.Import(sources)

	resp := map[string]interface{}{
		"imported": imported,
		"skipped":  len(sources) - len(imported),
		"dirty":    draft.Dirty(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

type saveWeekReq struct {
	Date    string            `json:"date"`
	Records []planning.Record `json:"records"`
}

// SaveWeekPlanning persists a full week draft. Records keep their submitted
// bucket order; negative ids are created, positive ones updated, and activity
// associations are diffed against what the database holds. On failure the
// client's draft stays dirty and may simply be resubmitted.
func SaveWeekPlanning(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	projectID, err := uuid.Parse(params["id"])
	if err != nil {
		http.Error(w, "invalid project id", http.StatusBadRequest)
		return
	}
	var req saveWeekReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	ref, err := time.Parse(planning.DateLayout, req.Date)
	if err != nil {
		http.Error(w, "invalid date: "+req.Date, http.StatusBadRequest)
		return
	}
	for i := range req.Records {
		req.Records[i].ProjectID = projectID.String()
	}

	draft := planning.NewDraft(req.Records, ref, log.Default())
	store := NewPlanningStore(config.DB)
	if err := draft.SaveAll(r.Context(), store); err != nil {
		if errors.Is(err, planning.ErrSaveInFlight) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, "some changes may not have saved, please retry: "+err.Error(), http.StatusBadGateway)
		return
	}

	resp := map[string]interface{}{
		"records": draft.Records(),
		"dirty":   draft.Dirty(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func parseRefDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		return time.Now().UTC(), true
	}
	ref, err := time.Parse(planning.DateLayout, dateStr)
	if err != nil {
		http.Error(w, "invalid date: "+dateStr, http.StatusBadRequest)
		return time.Time{}, false
	}
	return ref, true
}
