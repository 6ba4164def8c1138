// Package valuekind implements the text<->scalar coercions the preference
// and TTL stores use. Every value is persisted as its textual
// representation; a requested-kind getter that fails to parse the stored
// text falls back to the caller-supplied default instead of raising an
// error.
package valuekind

import (
	"strconv"
	"strings"
)

// Kind tags the scalar type a caller is requesting or storing.
type Kind int

const (
	KindString Kind = iota
	KindInt32
	KindInt64
	KindFloat32
	KindBool
)

// FormatString returns the canonical textual representation of v, the form
// persisted on disk.
func FormatString(v string) string { return v }

// FormatInt32 returns the canonical decimal representation of v.
func FormatInt32(v int32) string { return strconv.FormatInt(int64(v), 10) }

// FormatInt64 returns the canonical decimal representation of v.
func FormatInt64(v int64) string { return strconv.FormatInt(v, 10) }

// FormatFloat32 returns the canonical decimal representation of v.
func FormatFloat32(v float32) string { return strconv.FormatFloat(float64(v), 'g', -1, 32) }

// FormatBool returns "true" or "false".
func FormatBool(v bool) string { return strconv.FormatBool(v) }

// ParseInt32 parses text as a base-10 int32, returning def on any failure.
func ParseInt32(text string, def int32) int32 {
	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return def
	}
	return int32(n)
}

// ParseInt64 parses text as a base-10 int64, returning def on any failure.
func ParseInt64(text string, def int64) int64 {
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// ParseFloat32 parses text as a float32, returning def on any failure.
func ParseFloat32(text string, def float32) float32 {
	f, err := strconv.ParseFloat(text, 32)
	if err != nil {
		return def
	}
	return float32(f)
}

// ParseBool parses "true"/"false" case-insensitively (strconv.ParseBool
// already accepts a slightly wider grammar; we constrain to the two
// canonical spellings the store writes, in any casing), returning def on any
// failure or on any other spelling.
func ParseBool(text string, def bool) bool {
	switch {
	case strings.EqualFold(text, "true"):
		return true
	case strings.EqualFold(text, "false"):
		return false
	default:
		return def
	}
}
