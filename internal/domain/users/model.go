package users

import "time"

// User representa una cuenta registrada en el sistema.
// PasswordHash nunca se serializa ni se expone por API.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}
