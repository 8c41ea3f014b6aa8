package transmission

import (
	"encoding/base64"
	"fmt"
)

// SessionInfo mirrors the session-get payload for the fields tower asks for.
type SessionInfo struct {
	Version    string `json:"version"`
	RPCVersion int    `json:"rpc-version,omitempty"`
}

// Stats is one block of transfer totals from session-stats.
type Stats struct {
	UploadedBytes   int64 `json:"uploadedBytes"`
	DownloadedBytes int64 `json:"downloadedBytes"`
	FilesAdded      int64 `json:"filesAdded"`
	SessionCount    int64 `json:"sessionCount"`
	SecondsActive   int64 `json:"secondsActive"`
}

// SessionStats aggregates daemon-wide rates and totals.
type SessionStats struct {
	ActiveTorrentCount int   `json:"activeTorrentCount"`
	DownloadSpeed      int64 `json:"downloadSpeed"`
	PausedTorrentCount int   `json:"pausedTorrentCount"`
	TorrentCount       int   `json:"torrentCount"`
	UploadSpeed        int64 `json:"uploadSpeed"`
	CumulativeStats    Stats `json:"cumulative-stats"`
	CurrentStats       Stats `json:"current-stats"`
}

// Torrent is the loose shape returned by ListTorrents; only the requested
// fields are populated.
type Torrent struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	PercentComplete float64 `json:"percentComplete"`
}

// TorrentList is the torrent-get payload for arbitrary field selections.
type TorrentList struct {
	Torrents []Torrent `json:"torrents"`
}

// TorrentSummary is everything the dashboard shows for one torrent.
type TorrentSummary struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	PercentComplete    float64 `json:"percentComplete"`
	PercentDone        float64 `json:"percentDone"`
	Status             Status  `json:"status"`
	ETA                int64   `json:"eta"`
	SizeWhenDone       int64   `json:"sizeWhenDone"`
	Pieces             string  `json:"pieces"`
	PieceCount         int     `json:"pieceCount"`
	PeersConnected     int     `json:"peersConnected"`
	PeersGettingFromUs int     `json:"peersGettingFromUs"`
	PeersSendingToUs   int     `json:"peersSendingToUs"`
	RateDownload       int64   `json:"rateDownload"`
	RateUpload         int64   `json:"rateUpload"`
}

// TorrentSummaryList is the torrent-get payload for SummaryFields.
type TorrentSummaryList struct {
	Torrents []TorrentSummary `json:"torrents"`
}

// SummaryFields is the fixed torrent-get field list behind TorrentSummaries.
var SummaryFields = []string{
	"id",
	"name",
	"percentComplete",
	"status",
	"eta",
	"percentDone",
	"sizeWhenDone",
	"pieces",
	"pieceCount",
	"peersConnected",
	"peersGettingFromUs",
	"peersSendingToUs",
	"rateDownload",
	"rateUpload",
}

// PieceBitmap decodes the base64 piece-completion bitmap. A malformed
// bitmap is a protocol error: the daemon sent something unusable.
func (t TorrentSummary) PieceBitmap() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(t.Pieces)
	if err != nil {
		return nil, &ProtocolError{Method: MethodTorrentGet, Err: fmt.Errorf("torrent %d pieces: %w", t.ID, err)}
	}
	return raw, nil
}

// CompletedBytes estimates how much of SizeWhenDone is on disk.
func (t TorrentSummary) CompletedBytes() int64 {
	return int64(float64(t.SizeWhenDone) * t.PercentComplete)
}
