package dao

import (
	"errors"
	"time"
)

var (
	ErrMalformedStore     = errors.New("message store is malformed")
	ErrStorageUnavailable = errors.New("message storage unavailable")
)

// ContactMessage is both the JSON record of the file store and the row of the
// contact_messages table. MessageID is not unique: submissions stamped in the
// same millisecond are all kept.
type ContactMessage struct {
	MessageID int64     `gorm:"index;not null" json:"id"`
	ID        uint      `gorm:"primaryKey" json:"-"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	IP        string    `gorm:"not null" json:"ip"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}

// stamp assigns the persistence-time id and timestamp. The id is the Unix
// millisecond of now, bumped past lastID when the clock has not moved on.
func stamp(msg ContactMessage, now time.Time, lastID int64) ContactMessage {
	now = now.UTC().Truncate(time.Millisecond)

	msg.MessageID = now.UnixMilli()
	if msg.MessageID <= lastID {
		msg.MessageID = lastID + 1
	}
	msg.Timestamp = now

	return msg
}
