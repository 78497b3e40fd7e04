package incidents

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidType   = errors.New("invalid incident type")
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
	Title        string
	Description  string
	Location     string
	IncidentType string
	ContactInfo  string
}

func (s *Service) Create(ctx context.Context, reporterID string, in CreateInput) (Incident, error) {
	if strings.TrimSpace(reporterID) == "" {
		return Incident{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Title) == "" {
		return Incident{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Description) == "" {
		return Incident{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Location) == "" {
		return Incident{}, ErrInvalidInput
	}

	itype := Type(strings.TrimSpace(in.IncidentType))
	if itype == "" {
		return Incident{}, ErrInvalidInput
	}
	if !ValidType(itype) {
		return Incident{}, ErrInvalidType
	}

	inc := Incident{
		ID:           uuid.NewString(),
		UserID:       reporterID,
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		Location:     strings.TrimSpace(in.Location),
		IncidentType: itype,
		ContactInfo:  strings.TrimSpace(in.ContactInfo),
		Status:       StatusOpen,
		CreatedAt:    s.now(),
	}

	if err := s.repo.Create(ctx, inc); err != nil {
		return Incident{}, err
	}
	return inc, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Incident, error) {
	inc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Incident{}, ErrNotFound
	}
	return inc, nil
}

func (s *Service) List(ctx context.Context) ([]Incident, error) {
	return s.repo.List(ctx)
}

func (s *Service) Search(ctx context.Context, f Filter) ([]Incident, error) {
	return s.repo.Search(ctx, f)
}

// UpdateInput es un patch: nil = no tocar el campo.
type UpdateInput struct {
	Title        *string
	Description  *string
	Location     *string
	IncidentType *string
	ContactInfo  *string
	Status       *string
}

func (s *Service) Update(ctx context.Context, id, callerID string, isAdmin bool, in UpdateInput) (Incident, error) {
	inc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Incident{}, ErrNotFound
	}

	if inc.UserID != callerID && !isAdmin {
		return Incident{}, ErrForbidden
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return Incident{}, ErrInvalidInput
		}
		inc.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" {
			return Incident{}, ErrInvalidInput
		}
		inc.Description = *in.Description
	}
	if in.Location != nil {
		if strings.TrimSpace(*in.Location) == "" {
			return Incident{}, ErrInvalidInput
		}
		inc.Location = strings.TrimSpace(*in.Location)
	}
	if in.IncidentType != nil {
		itype := Type(strings.TrimSpace(*in.IncidentType))
		if !ValidType(itype) {
			return Incident{}, ErrInvalidType
		}
		inc.IncidentType = itype
	}
	if in.ContactInfo != nil {
		inc.ContactInfo = strings.TrimSpace(*in.ContactInfo)
	}
	if in.Status != nil {
		status := Status(strings.TrimSpace(*in.Status))
		if !ValidStatus(status) {
			return Incident{}, ErrInvalidStatus
		}
		inc.Status = status
	}

	if err := s.repo.Update(ctx, inc); err != nil {
		return Incident{}, err
	}
	return inc, nil
}

func (s *Service) Delete(ctx context.Context, id, callerID string, isAdmin bool) error {
	inc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}

	if inc.UserID != callerID && !isAdmin {
		return ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}
