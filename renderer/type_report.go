package renderer

import (
	"cardstock"
)

// Report is the view model for a sync run.
type Report struct {
	Started  string
	Duration string
	Total    int
	Selected int
	Updated  int
	Skipped  int
	Errored  int
	Restocks []RestockRow
}

// RestockRow is one quantity increase observed during the run.
type RestockRow struct {
	Name string
	From int
	To   int
}

// NewReport builds the view from an engine report.
func NewReport(r cardstock.SyncReport) *Report {
	v := &Report{
		Started:  r.Started.Local().Format("2006-01-02 15:04:05"),
		Duration: r.Finished.Sub(r.Started).Round(durationGrain).String(),
		Total:    r.Total,
		Selected: r.Selected,
		Updated:  r.Updated,
		Skipped:  r.Skipped,
		Errored:  r.Errored,
	}
	for _, e := range r.Restocks {
		name := e.Name
		if name == "" {
			name = e.Key
		}
		v.Restocks = append(v.Restocks, RestockRow{Name: name, From: e.OldQuantity, To: e.NewQuantity})
	}
	return v
}
