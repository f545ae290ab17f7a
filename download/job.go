package download

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tubeplay-cli/tubeplay/format"
)

const stampLayout = "20060102_150405"

// Job is a single download request. Only the Controller mutates it.
type Job struct {
	ID         uuid.UUID
	URL        string
	Dir        string
	Preference format.Preference

	// Selector is empty until the format is resolved, unless set by the caller.
	Selector format.Selector
	Policy   Policy
	Stamp    time.Time

	// OutputTemplate is the yt-dlp output template, relative to Dir.
	OutputTemplate string
}

// NewJob creates a job with a fresh time ordered ID and a collision free output template.
func NewJob(url, dir string, pref format.Preference, policy Policy) (*Job, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate job id: %w", err)
	}

	job := &Job{
		ID:         id,
		URL:        url,
		Dir:        dir,
		Preference: pref,
		Policy:     policy,
		Stamp:      time.Now(),
	}
	job.OutputTemplate = fmt.Sprintf("%%(title)s_%s_%s.%%(ext)s", job.Stamp.Format(stampLayout), job.ShortID())

	return job, nil
}

// ShortID is the time and sequence part of the job ID.
// Version 7 IDs generated by one process are strictly increasing, so it is unique per process.
func (j *Job) ShortID() string {
	return strings.ReplaceAll(j.ID.String()[:18], "-", "")
}

func (j *Job) String() string {
	return fmt.Sprintf("%s (%s)", j.URL, j.ID)
}
