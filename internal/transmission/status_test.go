package transmission

import (
	"encoding/json"
	"testing"
)

func TestStatus_WireValues(t *testing.T) {
	want := map[int]Status{
		0: StatusStopped,
		1: StatusQueuedVerify,
		2: StatusVerifying,
		3: StatusQueuedDownload,
		4: StatusDownloading,
		5: StatusQueuedSeed,
		6: StatusSeeding,
	}
	for n, status := range want {
		var got Status
		if err := json.Unmarshal([]byte{byte('0' + n)}, &got); err != nil {
			t.Fatalf("Unmarshal(%d) returned error: %v", n, err)
		}
		if got != status {
			t.Fatalf("Unmarshal(%d) = %v, want %v", n, got, status)
		}
		out, err := json.Marshal(status)
		if err != nil {
			t.Fatalf("Marshal(%v) returned error: %v", status, err)
		}
		if string(out) != string(rune('0'+n)) {
			t.Fatalf("Marshal(%v) = %s, want %d", status, out, n)
		}
	}
}

func TestStatus_RejectsUnknownValues(t *testing.T) {
	for _, raw := range []string{"7", "-1", `"seeding"`} {
		var s Status
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			t.Fatalf("Unmarshal(%s) returned nil error, want error", raw)
		}
	}
	if _, err := json.Marshal(Status(12)); err == nil {
		t.Fatalf("Marshal(Status(12)) returned nil error, want error")
	}
}

func TestStatus_Labels(t *testing.T) {
	cases := map[Status]string{
		StatusStopped:        "Stopped",
		StatusQueuedVerify:   "Queued",
		StatusQueuedDownload: "Queued",
		StatusQueuedSeed:     "Queued",
		StatusVerifying:      "Verifying",
		StatusDownloading:    "Downloading",
		StatusSeeding:        "Seeding",
		Status(42):           "Unknown",
	}
	for status, want := range cases {
		if got := status.Label(); got != want {
			t.Fatalf("%v.Label() = %q, want %q", status, got, want)
		}
	}
	if got := Status(42).String(); got != "Status(42)" {
		t.Fatalf("String() = %q, want Status(42)", got)
	}
}
