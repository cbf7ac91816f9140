package repositories

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	start := time.Date(2026, 9, 20, 21, 0, 0, 0, time.UTC)
	id := uuid.New()

	token := EncodeCursor(start, id)
	gotStart, gotID, err := DecodeCursor(token)

	require.NoError(t, err)
	assert.True(t, start.Equal(gotStart))
	assert.Equal(t, id, gotID)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	cases := []struct {
		name  string
		token string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"not json", base64.RawURLEncoding.EncodeToString([]byte("garbage"))},
		{"nil id", EncodeCursor(time.Now(), uuid.Nil)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := DecodeCursor(tc.token)
			assert.ErrorIs(t, err, ErrBadCursor)
		})
	}
}
