// Package uploads guarda imágenes subidas por los usuarios y las sirve
// bajo /uploads/{filename}. El write de archivo no es transaccional con
// el insert del Pet que lo referencia: un crash entre medio puede dejar
// un archivo huérfano (inconsistencia aceptada).
package uploads

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxFileSize es el techo fijo por archivo (16 MiB).
const MaxFileSize = 16 << 20

var (
	ErrDisallowedExtension = errors.New("file type not allowed")
	ErrTooLarge            = errors.New("file too large")
)

var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	if strings.TrimSpace(dir) == "" {
		dir = "uploads"
	}
	_ = os.MkdirAll(dir, 0o755)
	return &Store{dir: dir}
}

func (s *Store) Dir() string {
	return s.dir
}

// Save valida extensión y tamaño, y persiste el archivo con un nombre
// libre de colisiones: un uuid como prefijo del nombre original saneado.
// Devuelve la URL relativa que resuelve el route de /uploads.
func (s *Store) Save(declaredFilename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(declaredFilename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", ErrDisallowedExtension
	}

	name := uuid.NewString() + "_" + sanitizeFilename(declaredFilename)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}

	// Leemos un byte más que el techo para detectar el exceso sin
	// bufferear el payload entero.
	n, err := io.Copy(f, io.LimitReader(r, MaxFileSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", err
	}
	if n > MaxFileSize {
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", ErrTooLarge
	}

	return "/uploads/" + name, nil
}

// sanitizeFilename descarta componentes de path y cualquier caracter
// fuera de [A-Za-z0-9._-].
func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			return r
		default:
			return -1
		}
	}, base)

	clean = strings.TrimLeft(clean, ".")
	if clean == "" {
		clean = "file"
	}
	return clean
}
