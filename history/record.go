package history

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Record is a finished download.
type Record struct {
	URL      string    `json:"url"`
	Path     string    `json:"path"`
	Selector string    `json:"selector"`
	Size     int64     `json:"size"`
	At       time.Time `json:"at"`
}

func (r *Record) String() string {
	return fmt.Sprintf("%s  %s  %s", humanize.Time(r.At), humanize.Bytes(uint64(r.Size)), r.Path)
}
