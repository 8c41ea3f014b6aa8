package transmission

import (
	"encoding/json"
	"fmt"
)

// Status is the daemon's torrent activity state. The integer values are
// assigned by the daemon and travel on the wire as-is.
type Status int

const (
	StatusStopped        Status = 0
	StatusQueuedVerify   Status = 1
	StatusVerifying      Status = 2
	StatusQueuedDownload Status = 3
	StatusDownloading    Status = 4
	StatusQueuedSeed     Status = 5
	StatusSeeding        Status = 6
)

// statusNames is the wire table. Keep it keyed by value, not by position.
var statusNames = map[Status]string{
	StatusStopped:        "Stopped",
	StatusQueuedVerify:   "QueuedVerify",
	StatusVerifying:      "Verifying",
	StatusQueuedDownload: "QueuedDownload",
	StatusDownloading:    "Downloading",
	StatusQueuedSeed:     "QueuedSeed",
	StatusSeeding:        "Seeding",
}

// String returns the variant name.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Valid reports whether s is one of the daemon's seven states.
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// Label returns the short text shown next to a torrent.
func (s Status) Label() string {
	switch s {
	case StatusStopped:
		return "Stopped"
	case StatusQueuedVerify, StatusQueuedDownload, StatusQueuedSeed:
		return "Queued"
	case StatusVerifying:
		return "Verifying"
	case StatusDownloading:
		return "Downloading"
	case StatusSeeding:
		return "Seeding"
	default:
		return "Unknown"
	}
}

// MarshalJSON encodes the wire integer.
func (s Status) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid torrent status %d", int(s))
	}
	return json.Marshal(int(s))
}

// UnmarshalJSON decodes the wire integer and rejects values outside the table.
func (s *Status) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("torrent status: %w", err)
	}
	status := Status(n)
	if !status.Valid() {
		return fmt.Errorf("unknown torrent status %d", n)
	}
	*s = status
	return nil
}
