package model

import "time"

// User is an account known to the billing collaborator, keyed both by our
// internal ID and by the Telegram ID the transport sees.
type User struct {
	ID           string
	TelegramID   int64
	Username     string
	RegisteredAt time.Time
	LastActiveAt time.Time
}

func NewUser(id string, telegramID int64, username string) *User {
	now := time.Now()
	return &User{
		ID:           id,
		TelegramID:   telegramID,
		Username:     username,
		RegisteredAt: now,
		LastActiveAt: now,
	}
}
