// Package paging provides the page envelopes and the cursor token codec used
// by the pagination helpers in datasource/sql.
package paging

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"time"
)

// Cursor is the resume position of a keyset-paginated query. Key holds the
// encoded value of the ordering column and ID breaks ties between equal keys.
type Cursor struct {
	Key string `json:"k"`
	ID  string `json:"i"`
}

// IsZero reports whether the cursor carries no position.
func (c Cursor) IsZero() bool {
	return c.Key == "" && c.ID == ""
}

// EncodeCursor renders c as an opaque URL-safe token. The token format is
// internal; it stays stable within a deployment but is not a public contract.
func EncodeCursor(c Cursor) string {
	raw, _ := json.Marshal(c)

	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses a token produced by EncodeCursor. Empty, malformed or
// truncated input yields a zero cursor and false, never an error: an
// unusable token means "start from the beginning".
func DecodeCursor(token string) (Cursor, bool) {
	if token == "" {
		return Cursor{}, false
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, false
	}

	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return Cursor{}, false
	}

	if c.IsZero() {
		return Cursor{}, false
	}

	return c, true
}

// TimeKey encodes t as a cursor key with nanosecond precision, normalized to
// UTC so keys compare consistently across writers.
func TimeKey(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimeKey decodes a key produced by TimeKey.
func ParseTimeKey(key string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, key)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// IntKey encodes a numeric ordering value as a cursor key.
func IntKey(v int64) string {
	return strconv.FormatInt(v, 10)
}

// ParseIntKey decodes a key produced by IntKey.
func ParseIntKey(key string) (int64, bool) {
	v, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}
