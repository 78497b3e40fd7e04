package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	mem "rescue-revolution/internal/adapters/storage/memory"
	pg "rescue-revolution/internal/adapters/storage/postgres"
	"rescue-revolution/internal/domain/auth"
	"rescue-revolution/internal/domain/incidents"
	"rescue-revolution/internal/domain/pets"
	"rescue-revolution/internal/domain/users"
	"rescue-revolution/internal/middleware"
	"rescue-revolution/internal/platform/logger"
	"rescue-revolution/internal/uploads"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Directorio para imágenes subidas (default "uploads").
	UploadDir string

	// Opcional: si no viene, se construye desde env.
	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	var (
		userRepo     users.Repository
		sessionRepo  auth.SessionRepository
		petRepo      pets.Repository
		incidentRepo incidents.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres open failed, falling back to in-memory", map[string]any{
					"error": err.Error(),
				})
			}
		}
	}

	// Sin esquema no hay Postgres usable: mejor degradar a in-memory
	// que servir 500 en cada request.
	if db != nil {
		if err := pg.EnsureSchema(context.Background(), db); err != nil {
			log.Error("schema bootstrap failed, falling back to in-memory", map[string]any{
				"error": err.Error(),
			})
			db = nil
		}
	}

	if db != nil {
		userRepo = pg.NewUsersRepo(db)
		sessionRepo = pg.NewSessionsRepo(db)
		petRepo = pg.NewPetsRepo(db)
		incidentRepo = pg.NewIncidentsRepo(db)
	} else {
		userRepo = mem.NewUserRepo()
		sessionRepo = mem.NewSessionRepo()
		petRepo = mem.NewPetRepo()
		incidentRepo = mem.NewIncidentRepo()
	}

	// Services por módulo
	authSvc := auth.NewService(userRepo, sessionRepo)
	petsSvc := pets.NewService(petRepo)
	incidentsSvc := incidents.NewService(incidentRepo)

	store := uploads.NewStore(opts.UploadDir)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(middleware.Recover(log))

	// Resuelve la cookie de sesión a claims; los handlers deciden 401.
	r.Use(middleware.SessionContext(authSvc))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not found"}`))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte(`{"error":"Method not allowed"}`))
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Rutas por módulo
	r.Route("/api", func(api chi.Router) {
		auth.RegisterRoutes(api, authSvc)
		pets.RegisterRoutes(api, petsSvc, authSvc, store)
		incidents.RegisterRoutes(api, incidentsSvc, authSvc)
	})

	uploads.RegisterRoutes(r, store)

	return r
}
