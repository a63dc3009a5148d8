package data

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// The store paginates by continuation cursor, not numeric offset. A cursor
// encodes the (updated_at, id) position of the last row of the previous
// page; both columns together form a total order under the fixed
// "updated_at DESC, id DESC" sort.

// encodeCursor serializes a page position into an opaque token.
func encodeCursor(updatedAt time.Time, id string) string {
	raw := fmt.Sprintf("%s|%s", updatedAt.UTC().Format(time.RFC3339Nano), id)
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

// decodeCursor parses a token produced by encodeCursor.
func decodeCursor(cursor string) (time.Time, string, error) {
	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("malformed cursor: %w", err)
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, "", fmt.Errorf("malformed cursor")
	}
	ts, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("malformed cursor timestamp: %w", err)
	}
	return ts, parts[1], nil
}
