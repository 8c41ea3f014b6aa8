package logtail

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/five82/tower/internal/logging"
)

// Entry is one parsed log line. Lines that are not JSON objects keep their
// text in Message with an empty Level.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	// Fields holds the remaining keys as "key=value", sorted by key.
	Fields []string
}

// Parse decodes a JSON log line written by the logging package.
func Parse(line string) Entry {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return Entry{Message: line}
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return Entry{Message: line}
	}

	var e Entry
	if ts, ok := raw[logging.TimeKey].(string); ok {
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.Time = parsed
		}
	}
	e.Level, _ = raw[logging.LevelKey].(string)
	e.Message, _ = raw[logging.MessageKey].(string)
	delete(raw, logging.TimeKey)
	delete(raw, logging.LevelKey)
	delete(raw, logging.MessageKey)

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e.Fields = append(e.Fields, k+"="+formatValue(raw[k]))
	}
	return e
}

// ParseLines parses each line in order.
func ParseLines(lines []string) []Entry {
	if len(lines) == 0 {
		return nil
	}
	entries := make([]Entry, len(lines))
	for i, line := range lines {
		entries[i] = Parse(line)
	}
	return entries
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		if strings.ContainsAny(val, " \t") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case float64:
		return fmt.Sprintf("%g", val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}
