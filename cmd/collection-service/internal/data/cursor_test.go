package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundtrip(t *testing.T) {
	at := time.Date(2026, 8, 29, 14, 30, 15, 123456789, time.UTC)

	cursor := encodeCursor(at, "coll_abc")
	gotAt, gotID, err := decodeCursor(cursor)

	require.NoError(t, err)
	assert.True(t, at.Equal(gotAt))
	assert.Equal(t, "coll_abc", gotID)
}

func TestCursorIDMayContainSeparator(t *testing.T) {
	at := time.Now().UTC()

	cursor := encodeCursor(at, "id|with|pipes")
	_, gotID, err := decodeCursor(cursor)

	require.NoError(t, err)
	assert.Equal(t, "id|with|pipes", gotID)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	cases := []struct {
		name   string
		cursor string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"no separator", "bm9zZXBhcmF0b3I="},         // "noseparator"
		{"bad timestamp", "bm90LWEtdGltZXxjb2xsXzE="}, // "not-a-time|coll_1"
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := decodeCursor(tc.cursor)
			assert.Error(t, err)
		})
	}
}
