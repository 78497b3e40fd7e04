package incidents

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"rescue-revolution/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// UserDirectory resuelve user_id -> username para el shaping de respuestas.
type UserDirectory interface {
	UsernameByID(ctx context.Context, id string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, dir UserDirectory) {
	r.Route("/incidents", func(ir chi.Router) {
		ir.Get("/", listIncidentsHandler(svc, dir))
		ir.Post("/", createIncidentHandler(svc, dir))

		ir.Get("/{incidentID}", getIncidentHandler(svc, dir))
		ir.Put("/{incidentID}", updateIncidentHandler(svc, dir))
		ir.Delete("/{incidentID}", deleteIncidentHandler(svc))
	})

	r.Get("/search/incidents", searchIncidentsHandler(svc, dir))
}

type createIncidentRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	IncidentType string `json:"incident_type"`
	ContactInfo  string `json:"contact_info"`
}

type updateIncidentRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Location     *string `json:"location"`
	IncidentType *string `json:"incident_type"`
	ContactInfo  *string `json:"contact_info"`
	Status       *string `json:"status"`
}

type incidentResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	IncidentType string    `json:"incident_type"`
	ContactInfo  string    `json:"contact_info"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	Reporter     string    `json:"reporter"`
}

func createIncidentHandler(svc *Service, dir UserDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		var req createIncidentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		inc, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Title:        req.Title,
			Description:  req.Description,
			Location:     req.Location,
			IncidentType: req.IncidentType,
			ContactInfo:  req.ContactInfo,
		})
		if err != nil {
			switch err {
			case ErrInvalidType:
				writeError(w, http.StatusBadRequest, "Invalid incident_type")
			case ErrInvalidInput:
				writeError(w, http.StatusBadRequest, "Title, description, location and incident_type are required")
			default:
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, toIncidentResponse(r.Context(), dir, inc))
	}
}

func listIncidentsHandler(svc *Service, dir UserDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		out := make([]incidentResponse, 0, len(items))
		for _, inc := range items {
			out = append(out, toIncidentResponse(r.Context(), dir, inc))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getIncidentHandler(svc *Service, dir UserDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inc, err := svc.GetByID(r.Context(), chi.URLParam(r, "incidentID"))
		if err != nil {
			writeError(w, http.StatusNotFound, "Incident not found")
			return
		}

		writeJSON(w, http.StatusOK, toIncidentResponse(r.Context(), dir, inc))
	}
}

func updateIncidentHandler(svc *Service, dir UserDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		var req updateIncidentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		inc, err := svc.Update(r.Context(), chi.URLParam(r, "incidentID"), claims.UserID, claims.IsAdmin, UpdateInput{
			Title:        req.Title,
			Description:  req.Description,
			Location:     req.Location,
			IncidentType: req.IncidentType,
			ContactInfo:  req.ContactInfo,
			Status:       req.Status,
		})
		if err != nil {
			switch err {
			case ErrNotFound:
				writeError(w, http.StatusNotFound, "Incident not found")
			case ErrForbidden:
				writeError(w, http.StatusForbidden, "Unauthorized")
			case ErrInvalidType:
				writeError(w, http.StatusBadRequest, "Invalid incident_type")
			case ErrInvalidStatus:
				writeError(w, http.StatusBadRequest, "Invalid status")
			case ErrInvalidInput:
				writeError(w, http.StatusBadRequest, "Invalid input")
			default:
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, toIncidentResponse(r.Context(), dir, inc))
	}
}

func deleteIncidentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		err := svc.Delete(r.Context(), chi.URLParam(r, "incidentID"), claims.UserID, claims.IsAdmin)
		if err != nil {
			switch err {
			case ErrNotFound:
				writeError(w, http.StatusNotFound, "Incident not found")
			case ErrForbidden:
				writeError(w, http.StatusForbidden, "Unauthorized")
			default:
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Incident deleted successfully"})
	}
}

func searchIncidentsHandler(svc *Service, dir UserDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := Filter{
			Query:  r.URL.Query().Get("q"),
			Type:   r.URL.Query().Get("type"),
			Status: r.URL.Query().Get("status"),
		}

		items, err := svc.Search(r.Context(), f)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		out := make([]incidentResponse, 0, len(items))
		for _, inc := range items {
			out = append(out, toIncidentResponse(r.Context(), dir, inc))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toIncidentResponse(ctx context.Context, dir UserDirectory, inc Incident) incidentResponse {
	reporter, err := dir.UsernameByID(ctx, inc.UserID)
	if err != nil {
		reporter = ""
	}

	return incidentResponse{
		ID:           inc.ID,
		Title:        inc.Title,
		Description:  inc.Description,
		Location:     inc.Location,
		IncidentType: string(inc.IncidentType),
		ContactInfo:  inc.ContactInfo,
		Status:       string(inc.Status),
		CreatedAt:    inc.CreatedAt,
		Reporter:     reporter,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
