package uploads

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, store *Store) {
	r.Get("/uploads/{filename}", serveFileHandler(store))
}

func serveFileHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "filename")

		// Defensa contra traversal: el nombre guardado nunca tiene
		// separadores ni "..".
		if name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
			writeNotFound(w)
			return
		}

		path := filepath.Join(store.Dir(), name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			writeNotFound(w)
			return
		}

		http.ServeFile(w, r, path)
	}
}

func writeNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`{"error":"Not found"}`))
}
