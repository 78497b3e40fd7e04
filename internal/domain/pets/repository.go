package pets

import "context"

// Filter combina los criterios de búsqueda con AND lógico.
// Campos vacíos no imponen restricción.
type Filter struct {
	Query   string // substring sobre name OR description (case-sensitive)
	Species string // igualdad exacta
	Status  string // igualdad exacta
}

type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	List(ctx context.Context) ([]Pet, error)
	Update(ctx context.Context, p Pet) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, f Filter) ([]Pet, error)
}
