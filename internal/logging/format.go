package logging

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
	colorReset  = "\033[0m"
)

// formatEntry renders entry as a single line in the given format
func formatEntry(entry *LogEntry, format string, colorized bool) (string, error) {
	if strings.EqualFold(format, "text") {
		return formatText(entry, colorized), nil
	}
	return formatJSON(entry)
}

func formatJSON(entry *LogEntry) (string, error) {
	data := make(map[string]interface{}, len(entry.Fields)+3)
	for k, v := range entry.Fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		data[k] = v
	}
	data["level"] = entry.Level.String()
	data["message"] = entry.Message
	data["time"] = entry.Timestamp.Format(time.RFC3339)

	out, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to format log entry: %w", err)
	}
	return string(out), nil
}

func formatText(entry *LogEntry, colorized bool) string {
	level := strings.ToUpper(entry.Level.String())
	if colorized {
		level = colorize(entry.Level, level)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", entry.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"), level, entry.Message)

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Fields[k])
	}
	return b.String()
}

func colorize(level LogLevel, s string) string {
	switch level {
	case DebugLevel:
		return colorGray + s + colorReset
	case InfoLevel:
		return colorBlue + s + colorReset
	case WarnLevel:
		return colorYellow + s + colorReset
	case ErrorLevel, FatalLevel:
		return colorRed + s + colorReset
	default:
		return s
	}
}
