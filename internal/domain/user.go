package domain

import "time"

type User struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	WhatsappNumber string    `json:"whatsappNumber"`
	Email          string    `json:"email"`
	Password       string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// LegacyUser is the pre-signup-era account shape: username and password only,
// no contact details. Kept so old accounts can still log in.
type LegacyUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}
