package history

import (
	"time"

	"github.com/tubeplay-cli/tubeplay/download"
)

// Recorder saves finished downloads.
type Recorder struct{}

func (Recorder) Record(result download.Result) error {
	return Save(&Record{
		URL:      result.Job.URL,
		Path:     result.Path,
		Selector: result.Selector.String(),
		Size:     result.Size,
		At:       time.Now(),
	})
}
