package entity

import (
	"time"
)

// Account is the aggregate root for the registered user.
// Password holds the bcrypt hash; it is written once at registration and
// cleared before the account is ever returned to a caller.
type Account struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password,omitempty"`
	Avatar   string    `json:"avatar"`
	Date     time.Time `json:"date"`
}

// Sanitized returns a copy safe to serialize in responses.
func (a Account) Sanitized() Account {
	a.Password = ""
	return a
}
