// Package export renders registrations as the CSV sheet admins download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
)

// Header is the first CSV row.
var Header = []string{"Email", "Name", "Organization", "Slot Name", "Slot Date", "Slot Time", "Topic", "Instructor"}

// Filename returns the download name for an export taken at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("workshop-registrations-%s.csv", now.UTC().Format("2006-01-02"))
}

// WriteCSV writes the header and one row per registration. Registrations are
// expected to carry their slot and topic.
func WriteCSV(w io.Writer, regs []model.Registration) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range regs {
		if err := cw.Write(row(&regs[i])); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func row(r *model.Registration) []string {
	out := []string{r.Email, deref(r.Name), deref(r.Organization), "", "", "", "", ""}
	if r.Slot != nil {
		out[3], out[4], out[5] = r.Slot.Name, r.Slot.Date, r.Slot.Time
	}
	if r.Topic != nil {
		out[6], out[7] = r.Topic.Title, r.Topic.Instructor
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
