package logentry

import (
	"fmt"
	"strings"
)

// SourceKind tags which producer grammar an entry was read with.
// It travels next to the entry (see sink.Sink) and is not part of LogEntry.
type SourceKind int

const (
	SourceEditor SourceKind = iota
	SourceForwarded
	SourceDeviceLogcat
	SourceLogFile
)

var sourceKindNames = map[SourceKind]string{
	SourceEditor:       "editor",
	SourceForwarded:    "forwarded",
	SourceDeviceLogcat: "logcat",
	SourceLogFile:      "logfile",
}

func (k SourceKind) String() string {
	if name, ok := sourceKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("source(%d)", int(k))
}

// ParseSourceKind accepts the names returned by String.
func ParseSourceKind(s string) (SourceKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range sourceKindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown source kind %q (must be editor, forwarded, logcat, or logfile)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k SourceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SourceKind) UnmarshalText(text []byte) error {
	v, err := ParseSourceKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
