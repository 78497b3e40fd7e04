package auth

import "time"

// Session es la prueba server-side de un login exitoso.
// La cookie solo transporta el token opaco; el resto vive en el store.
type Session struct {
	Token     string
	UserID    string
	CreatedAt time.Time
}
