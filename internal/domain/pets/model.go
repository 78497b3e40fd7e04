package pets

import "time"

// Status define los estados soportados para una mascota publicada:
// available, adopted o lost.
type Status string

const (
	StatusAvailable Status = "available"
	StatusAdopted   Status = "adopted"
	StatusLost      Status = "lost"
)

// ValidStatus valida contra el set enumerado.
// El storage no lo constriñe; lo hacemos en el boundary del service.
func ValidStatus(s Status) bool {
	switch s {
	case StatusAvailable, StatusAdopted, StatusLost:
		return true
	default:
		return false
	}
}

// Pet representa una mascota publicada para adopción o reportada.
type Pet struct {
	ID     string
	UserID string // owner, inmutable después del create

	Name    string
	Species string // libre: dog, cat, bird, ...
	Breed   string
	Age     *int

	Description string
	ImageURL    string
	Status      Status
	Location    string
	ContactInfo string

	CreatedAt time.Time
}
