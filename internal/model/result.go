package model

import "time"

// GameResult is one published numeric result for a given date and draw time.
// Date is stored as dd/mm/yyyy and Time as the display label of the draw
// (e.g. "05:30 PM"); both are opaque strings to the server.
type GameResult struct {
	ID           string    `json:"id" db:"id"`
	Date         string    `json:"date" db:"date"`
	Time         string    `json:"time" db:"time"`
	Number       string    `json:"number" db:"number"`
	BottomNumber *string   `json:"bottomNumber,omitempty" db:"bottom_number"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// GameResultUpdate carries the mutable fields of a result for partial
// updates. Nil fields are left unchanged.
type GameResultUpdate struct {
	Date         *string `json:"date"`
	Time         *string `json:"time"`
	Number       *string `json:"number"`
	BottomNumber *string `json:"bottomNumber"`
}
