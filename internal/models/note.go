package models

import "time"

// Note is a free-text daily note keyed by its calendar day (YYYY-MM-DD).
// One note per date, last write wins.
type Note struct {
	Date      string    `json:"date"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}
