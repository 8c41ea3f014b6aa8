package transmission

import (
	"bytes"
	"errors"
	"testing"
)

func TestTorrentSummary_PieceBitmap(t *testing.T) {
	ts := TorrentSummary{ID: 1, Pieces: "/wA="}
	got, err := ts.PieceBitmap()
	if err != nil {
		t.Fatalf("PieceBitmap returned error: %v", err)
	}
	if !bytes.Equal(got, []byte{0xff, 0x00}) {
		t.Fatalf("PieceBitmap = %x, want ff00", got)
	}

	ts.Pieces = "not base64!"
	_, err = ts.PieceBitmap()
	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("PieceBitmap error = %v, want *ProtocolError", err)
	}
}

func TestTorrentSummary_CompletedBytes(t *testing.T) {
	ts := TorrentSummary{SizeWhenDone: 2000, PercentComplete: 0.25}
	if got := ts.CompletedBytes(); got != 500 {
		t.Fatalf("CompletedBytes = %d, want 500", got)
	}
}

func TestSummaryFields_RequestsBitmap(t *testing.T) {
	need := map[string]bool{"id": false, "status": false, "pieces": false, "pieceCount": false, "rateDownload": false, "rateUpload": false}
	for _, f := range SummaryFields {
		if _, ok := need[f]; ok {
			need[f] = true
		}
	}
	for f, seen := range need {
		if !seen {
			t.Fatalf("SummaryFields missing %q", f)
		}
	}
}
