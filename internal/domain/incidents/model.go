package incidents

import "time"

// Status define los estados de un reporte: open, resolved o closed.
type Status string

const (
	StatusOpen     Status = "open"
	StatusResolved Status = "resolved"
	StatusClosed   Status = "closed"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusOpen, StatusResolved, StatusClosed:
		return true
	default:
		return false
	}
}

// Type define las categorías de incidente soportadas:
// lost_pet, found_pet, abuse o emergency.
type Type string

const (
	TypeLostPet   Type = "lost_pet"
	TypeFoundPet  Type = "found_pet"
	TypeAbuse     Type = "abuse"
	TypeEmergency Type = "emergency"
)

func ValidType(t Type) bool {
	switch t {
	case TypeLostPet, TypeFoundPet, TypeAbuse, TypeEmergency:
		return true
	default:
		return false
	}
}

// Incident representa un reporte hecho por un usuario.
type Incident struct {
	ID     string
	UserID string // reporter, inmutable después del create

	Title        string
	Description  string
	Location     string
	IncidentType Type
	ContactInfo  string
	Status       Status

	CreatedAt time.Time
}
