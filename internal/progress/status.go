// Package progress reads the JSON status file written by DepotDownloader
// and reports percentage changes to the console.
package progress

import (
	"encoding/json"
	"fmt"
	"os"
)

// Record is the progress snapshot DepotDownloader periodically writes to
// the status file. The format belongs to the external tool; missing fields
// decode to zero.
type Record struct {
	Percentage float64 `json:"percentage"`
	Downloaded int64   `json:"downloaded"`
	Total      int64   `json:"total"`
}

// ReadStatus decodes the status file at path. The file may not exist yet,
// may be mid-write, or may be unreadable; all of those return ok=false and
// are treated as "no update yet" by the caller.
func ReadStatus(path string) (Record, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, false
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false
	}
	return rec, true
}

// formatRecord renders one progress line. When the total byte count is
// unknown the record is reported in percent-only mode.
func formatRecord(rec Record) string {
	if rec.Total > 0 {
		return fmt.Sprintf("%6.2f%%  (%d/%d bytes) YIPEEE!", rec.Percentage, rec.Downloaded, rec.Total)
	}
	return fmt.Sprintf("%6.2f%%  (percent-only)", rec.Percentage)
}
