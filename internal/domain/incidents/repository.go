package incidents

import "context"

// Filter combina los criterios de búsqueda con AND lógico.
// Campos vacíos no imponen restricción.
type Filter struct {
	Query  string // substring sobre title OR description (case-sensitive)
	Type   string // igualdad exacta
	Status string // igualdad exacta
}

type Repository interface {
	Create(ctx context.Context, in Incident) error
	GetByID(ctx context.Context, id string) (Incident, error)
	List(ctx context.Context) ([]Incident, error)
	Update(ctx context.Context, in Incident) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, f Filter) ([]Incident, error)
}
