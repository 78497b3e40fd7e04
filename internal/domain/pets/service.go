package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidStatus = errors.New("invalid status")
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name        string
	Species     string
	Breed       string
	Age         *int
	Description string
	ImageURL    string
	Status      string
	Location    string
	ContactInfo string
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Species) == "" {
		return Pet{}, ErrInvalidInput
	}

	status := Status(strings.TrimSpace(in.Status))
	if status == "" {
		status = StatusAvailable
	}
	if !ValidStatus(status) {
		return Pet{}, ErrInvalidStatus
	}

	p := Pet{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Name:        strings.TrimSpace(in.Name),
		Species:     strings.TrimSpace(in.Species),
		Breed:       strings.TrimSpace(in.Breed),
		Age:         in.Age,
		Description: in.Description,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Status:      status,
		Location:    strings.TrimSpace(in.Location),
		ContactInfo: strings.TrimSpace(in.ContactInfo),
		CreatedAt:   s.now(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]Pet, error) {
	return s.repo.List(ctx)
}

func (s *Service) Search(ctx context.Context, f Filter) ([]Pet, error) {
	return s.repo.Search(ctx, f)
}

// UpdateInput es un patch: nil = no tocar el campo.
type UpdateInput struct {
	Name        *string
	Species     *string
	Breed       *string
	Age         *int
	Description *string
	ImageURL    *string
	Status      *string
	Location    *string
	ContactInfo *string
}

// Update aplica un patch parcial. Solo el owner o un admin pueden mutar.
func (s *Service) Update(ctx context.Context, id, callerID string, isAdmin bool, in UpdateInput) (Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, ErrNotFound
	}

	if p.UserID != callerID && !isAdmin {
		return Pet{}, ErrForbidden
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Species != nil {
		if strings.TrimSpace(*in.Species) == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Species = strings.TrimSpace(*in.Species)
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Age != nil {
		age := *in.Age
		p.Age = &age
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.ImageURL != nil {
		p.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.Status != nil {
		status := Status(strings.TrimSpace(*in.Status))
		if !ValidStatus(status) {
			return Pet{}, ErrInvalidStatus
		}
		p.Status = status
	}
	if in.Location != nil {
		p.Location = strings.TrimSpace(*in.Location)
	}
	if in.ContactInfo != nil {
		p.ContactInfo = strings.TrimSpace(*in.ContactInfo)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// Delete borra la mascota (hard delete). Misma regla de ownership que Update.
func (s *Service) Delete(ctx context.Context, id, callerID string, isAdmin bool) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}

	if p.UserID != callerID && !isAdmin {
		return ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}
