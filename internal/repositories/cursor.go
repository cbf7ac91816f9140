package repositories

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// cursor references the last item of the previous page under the fixed
// (fecha_inicio ASC, id ASC) sort. The encoded form is opaque to callers:
// base64 over a small JSON payload. A cursor minted under one filter set is
// only meaningful under that same filter set; callers reset it on any
// filter change.
type cursor struct {
	Start time.Time `json:"start"`
	ID    uuid.UUID `json:"id"`
}

func EncodeCursor(start time.Time, id uuid.UUID) string {
	b, _ := json.Marshal(cursor{Start: start, ID: id})
	return base64.RawURLEncoding.EncodeToString(b)
}

func DecodeCursor(token string) (time.Time, uuid.UUID, error) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, uuid.Nil, ErrBadCursor
	}
	var c cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return time.Time{}, uuid.Nil, ErrBadCursor
	}
	if c.ID == uuid.Nil {
		return time.Time{}, uuid.Nil, ErrBadCursor
	}
	return c.Start, c.ID, nil
}
