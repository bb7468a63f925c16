package gallery

import "time"

// Creation is a saved generation result. It is never modified after Save.
type Creation struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Prompt    string    `json:"prompt"`
	ImageURL  string    `json:"imageUrl"` // durable data URI
}
