package domain

import "time"

// Submission is the unvalidated input of the contact form.
type Submission struct {
	Name    string
	Email   string
	Message string
}

// StoredMessage is a persisted submission. The client address keeps the "ip"
// key used by existing contact-messages.json files.
type StoredMessage struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Message       string    `json:"message"`
	Timestamp     time.Time `json:"timestamp"`
	ClientAddress string    `json:"ip"`
}
