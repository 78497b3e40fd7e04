package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"rescue-revolution/internal/domain/incidents"
)

type incidentRepo struct {
	mu   sync.RWMutex
	byID map[string]incidents.Incident
}

func NewIncidentRepo() incidents.Repository {
	return &incidentRepo{
		byID: make(map[string]incidents.Incident),
	}
}

func (r *incidentRepo) Create(ctx context.Context, in incidents.Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(in.ID) == "" {
		return errors.New("incident id required")
	}
	if _, exists := r.byID[in.ID]; exists {
		return errors.New("incident already exists")
	}
	r.byID[in.ID] = in
	return nil
}

func (r *incidentRepo) GetByID(ctx context.Context, id string) (incidents.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	in, ok := r.byID[id]
	if !ok {
		return incidents.Incident{}, ErrNotFound
	}
	return in, nil
}

func (r *incidentRepo) List(ctx context.Context) ([]incidents.Incident, error) {
	return r.Search(ctx, incidents.Filter{})
}

func (r *incidentRepo) Update(ctx context.Context, in incidents.Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[in.ID]; !exists {
		return ErrNotFound
	}
	r.byID[in.ID] = in
	return nil
}

func (r *incidentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *incidentRepo) Search(ctx context.Context, f incidents.Filter) ([]incidents.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]incidents.Incident, 0)
	for _, in := range r.byID {
		if !matchesIncident(in, f) {
			continue
		}
		out = append(out, in)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func matchesIncident(in incidents.Incident, f incidents.Filter) bool {
	if f.Query != "" &&
		!strings.Contains(in.Title, f.Query) &&
		!strings.Contains(in.Description, f.Query) {
		return false
	}
	if f.Type != "" && string(in.IncidentType) != f.Type {
		return false
	}
	if f.Status != "" && string(in.Status) != f.Status {
		return false
	}
	return true
}
