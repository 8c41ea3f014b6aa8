package transmission

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewRequest_RejectsMismatchedArguments(t *testing.T) {
	cases := []struct {
		name   string
		method Method
		args   Arguments
	}{
		{"stats with arguments", MethodSessionStats, GetSessionArgs{Fields: []string{"version"}}},
		{"torrent-get with session args", MethodTorrentGet, GetSessionArgs{Fields: []string{"version"}}},
		{"session-get without arguments", MethodSessionGet, nil},
		{"start with get args", MethodTorrentStart, GetTorrentArgs{Fields: []string{"id"}}},
		{"unknown method", Method("torrent-remove"), TorrentActionArgs{IDs: []int64{1}}},
	}
	for _, tc := range cases {
		if _, err := NewRequest(tc.method, tc.args); err == nil {
			t.Fatalf("%s: NewRequest returned nil error, want error", tc.name)
		}
	}

	if _, err := NewRequest(MethodTorrentStop, TorrentActionArgs{IDs: []int64{3}}); err != nil {
		t.Fatalf("NewRequest(torrent-stop) returned error: %v", err)
	}
}

func TestEncodeRequest_WireShape(t *testing.T) {
	req, err := NewRequest(MethodTorrentGet, GetTorrentArgs{Fields: []string{"id", "name"}})
	if err != nil {
		t.Fatalf("NewRequest returned error: %v", err)
	}
	body, err := EncodeRequest(req)
	if err != nil {
		t.Fatalf("EncodeRequest returned error: %v", err)
	}
	want := `{"method":"torrent-get","tag":null,"arguments":{"fields":["id","name"]}}`
	if string(body) != want {
		t.Fatalf("EncodeRequest = %s, want %s", body, want)
	}

	if _, err := EncodeRequest(Request{Method: MethodSessionStats, Arguments: GetSessionArgs{}}); err == nil {
		t.Fatalf("EncodeRequest accepted an invalid request")
	}
}

func TestDecodeResponse_ChecksResultBeforeArguments(t *testing.T) {
	// The arguments are the wrong shape for SessionInfo; a failed result must
	// be reported without trying to read them.
	body := []byte(`{"arguments":{"version":42},"result":"invalid argument"}`)
	_, err := DecodeResponse[SessionInfo](MethodSessionGet, body)
	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("DecodeResponse error = %v, want *ProtocolError", err)
	}
	if protoErr.Result != "invalid argument" {
		t.Fatalf("Result = %q, want invalid argument", protoErr.Result)
	}
}

func TestDecodeResponse_Errors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"malformed", `{"result":`, "decode response"},
		{"no result", `{"arguments":{"version":"4"}}`, "no result"},
		{"null arguments", `{"arguments":null,"result":"success"}`, "no arguments"},
		{"missing arguments", `{"result":"success"}`, "no arguments"},
		{"wrong payload", `{"arguments":{"version":[1]},"result":"success"}`, "decode arguments"},
	}
	for _, tc := range cases {
		_, err := DecodeResponse[SessionInfo](MethodSessionGet, []byte(tc.body))
		var protoErr *ProtocolError
		if !errors.As(err, &protoErr) || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: error = %v, want *ProtocolError containing %q", tc.name, err, tc.want)
		}
	}
}

func TestDecodeResponse_CommandsHaveNoPayload(t *testing.T) {
	resp, err := DecodeResponse[struct{}](MethodTorrentStart, []byte(`{"result":"success","tag":5}`))
	if err != nil {
		t.Fatalf("DecodeResponse returned error: %v", err)
	}
	if resp.Tag == nil || *resp.Tag != 5 {
		t.Fatalf("Tag = %v, want 5", resp.Tag)
	}
}

func TestDecodeResponse_TorrentSummaries(t *testing.T) {
	body := `{"arguments":{"torrents":[{"id":4,"name":"ubuntu.iso","status":6,"percentDone":1,"pieceCount":8,"pieces":"/w==","rateUpload":1024}]},"result":"success"}`
	resp, err := DecodeResponse[TorrentSummaryList](MethodTorrentGet, []byte(body))
	if err != nil {
		t.Fatalf("DecodeResponse returned error: %v", err)
	}
	if len(resp.Arguments.Torrents) != 1 {
		t.Fatalf("torrents = %d, want 1", len(resp.Arguments.Torrents))
	}
	got := resp.Arguments.Torrents[0]
	if got.ID != 4 || got.Status != StatusSeeding || got.RateUpload != 1024 {
		t.Fatalf("torrent = %#v, want seeding id=4", got)
	}

	bad := `{"arguments":{"torrents":[{"id":4,"status":9}]},"result":"success"}`
	if _, err := DecodeResponse[TorrentSummaryList](MethodTorrentGet, []byte(bad)); err == nil {
		t.Fatalf("DecodeResponse accepted status 9")
	}
}

func TestResponse_RoundTripKeepsTag(t *testing.T) {
	tag := 9
	body, err := json.Marshal(Response[SessionInfo]{Arguments: SessionInfo{Version: "4.0.5"}, Result: ResultSuccess, Tag: &tag})
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	resp, err := DecodeResponse[SessionInfo](MethodSessionGet, body)
	if err != nil {
		t.Fatalf("DecodeResponse returned error: %v", err)
	}
	if resp.Arguments.Version != "4.0.5" || resp.Tag == nil || *resp.Tag != 9 {
		t.Fatalf("resp = %#v, want version and tag preserved", resp)
	}
}
