package pets

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rescue-revolution/internal/middleware"
	"rescue-revolution/internal/uploads"

	"github.com/go-chi/chi/v5"
)

// UserDirectory resuelve user_id -> username para el shaping de respuestas.
// Interface local para no acoplar este módulo al de auth.
type UserDirectory interface {
	UsernameByID(ctx context.Context, id string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, dir UserDirectory, store *uploads.Store) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc, dir))
		pr.Post("/", createPetHandler(svc, dir, store))

		pr.Get("/{petID}", getPetHandler(svc, dir))
		pr.Put("/{petID}", updatePetHandler(svc, dir))
		pr.Delete("/{petID}", deletePetHandler(svc))
	})

	r.Get("/search/pets", searchPetsHandler(svc, dir))
}

type createPetRequest struct {
	Name        string `json:"name"`
	Species     string `json:"species"`
	Breed       string `json:"breed"`
	Age         *int   `json:"age"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Status      string `json:"status"`
	Location    string `json:"location"`
	ContactInfo string `json:"contact_info"`
}

type updatePetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name        *string `json:"name"`
	Species     *string `json:"species"`
	Breed       *string `json:"breed"`
	Age         *int    `json:"age"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	Status      *string `json:"status"`
	Location    *string `json:"location"`
	ContactInfo *string `json:"contact_info"`
}

type petResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Species     string    `json:"species"`
	Breed       string    `json:"breed"`
	Age         *int      `json:"age"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Status      string    `json:"status"`
	Location    string    `json:"location"`
	ContactInfo string    `json:"contact_info"`
	CreatedAt   time.Time `json:"created_at"`
	Owner       string    `json:"owner"`
}

func createPetHandler(svc *Service, dir UserDirectory, store *uploads.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		var in CreateInput
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			parsed, err := parseCreateForm(r, store)
			if err != nil {
				switch err {
				case uploads.ErrDisallowedExtension:
					writeError(w, http.StatusBadRequest, "File type not allowed")
				case uploads.ErrTooLarge:
					writeError(w, http.StatusBadRequest, "File too large")
				default:
					writeError(w, http.StatusBadRequest, "Invalid form data")
				}
				return
			}
			in = parsed
		} else {
			var req createPetRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "Invalid JSON")
				return
			}
			in = CreateInput{
				Name:        req.Name,
				Species:     req.Species,
				Breed:       req.Breed,
				Age:         req.Age,
				Description: req.Description,
				ImageURL:    req.ImageURL,
				Status:      req.Status,
				Location:    req.Location,
				ContactInfo: req.ContactInfo,
			}
		}

		p, err := svc.Create(r.Context(), claims.UserID, in)
		if err != nil {
			switch err {
			case ErrInvalidStatus:
				writeError(w, http.StatusBadRequest, "Invalid status")
			case ErrInvalidInput:
				writeError(w, http.StatusBadRequest, "Name and species are required")
			default:
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(r.Context(), dir, p))
	}
}

// parseCreateForm arma el CreateInput desde multipart form data.
// El archivo "image" es opcional; si en cambio viene el campo image_url,
// se guarda tal cual (path alternativo explícito, sin validación).
func parseCreateForm(r *http.Request, store *uploads.Store) (CreateInput, error) {
	if err := r.ParseMultipartForm(uploads.MaxFileSize); err != nil {
		return CreateInput{}, err
	}

	in := CreateInput{
		Name:        r.FormValue("name"),
		Species:     r.FormValue("species"),
		Breed:       r.FormValue("breed"),
		Description: r.FormValue("description"),
		ImageURL:    r.FormValue("image_url"),
		Status:      r.FormValue("status"),
		Location:    r.FormValue("location"),
		ContactInfo: r.FormValue("contact_info"),
	}

	if v := strings.TrimSpace(r.FormValue("age")); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil {
			return CreateInput{}, err
		}
		in.Age = &age
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()

		url, err := store.Save(header.Filename, file)
		if err != nil {
			return CreateInput{}, err
		}
		in.ImageURL = url
	} else if err != http.ErrMissingFile {
		return CreateInput{}, err
	}

	return in, nil
}

func listPetsHandler(svc *Service, dir UserDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(r.Context(), dir, p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service, dir UserDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, http.StatusNotFound, "Pet not found")
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(r.Context(), dir, p))
	}
}

func updatePetHandler(svc *Service, dir UserDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		var req updatePetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "petID"), claims.UserID, claims.IsAdmin, UpdateInput{
			Name:        req.Name,
			Species:     req.Species,
			Breed:       req.Breed,
			Age:         req.Age,
			Description: req.Description,
			ImageURL:    req.ImageURL,
			Status:      req.Status,
			Location:    req.Location,
			ContactInfo: req.ContactInfo,
		})
		if err != nil {
			switch err {
			case ErrNotFound:
				writeError(w, http.StatusNotFound, "Pet not found")
			case ErrForbidden:
				writeError(w, http.StatusForbidden, "Unauthorized")
			case ErrInvalidStatus:
				writeError(w, http.StatusBadRequest, "Invalid status")
			case ErrInvalidInput:
				writeError(w, http.StatusBadRequest, "Invalid input")
			default:
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(r.Context(), dir, p))
	}
}

func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		err := svc.Delete(r.Context(), chi.URLParam(r, "petID"), claims.UserID, claims.IsAdmin)
		if err != nil {
			switch err {
			case ErrNotFound:
				writeError(w, http.StatusNotFound, "Pet not found")
			case ErrForbidden:
				writeError(w, http.StatusForbidden, "Unauthorized")
			default:
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Pet deleted successfully"})
	}
}

func searchPetsHandler(svc *Service, dir UserDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := Filter{
			Query:   r.URL.Query().Get("q"),
			Species: r.URL.Query().Get("species"),
			Status:  r.URL.Query().Get("status"),
		}

		items, err := svc.Search(r.Context(), f)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(r.Context(), dir, p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toPetResponse(ctx context.Context, dir UserDirectory, p Pet) petResponse {
	owner, err := dir.UsernameByID(ctx, p.UserID)
	if err != nil {
		owner = ""
	}

	return petResponse{
		ID:          p.ID,
		Name:        p.Name,
		Species:     p.Species,
		Breed:       p.Breed,
		Age:         p.Age,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Status:      string(p.Status),
		Location:    p.Location,
		ContactInfo: p.ContactInfo,
		CreatedAt:   p.CreatedAt,
		Owner:       owner,
	}
}

// writeJSON/writeError están duplicados intencionalmente en handlers de
// distintos módulos (pets/incidents/auth) para evitar crear helpers
// compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
