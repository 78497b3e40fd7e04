package router_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"rescue-revolution/internal/router"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(router.NewRouter(router.Options{
		UploadDir: t.TempDir(),
	}))
	t.Cleanup(ts.Close)
	return ts
}

// newClient devuelve un client con cookie jar propio (una "sesión de browser").
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, c *http.Client, method, url string, body any) (int, []byte) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

func registerAndLogin(t *testing.T, c *http.Client, baseURL, username, email, password string) {
	t.Helper()

	st, body := doJSON(t, c, "POST", baseURL+"/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if st != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d body=%s", username, st, body)
	}

	st, body = doJSON(t, c, "POST", baseURL+"/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	if st != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d body=%s", username, st, body)
	}
}

func createPet(t *testing.T, c *http.Client, baseURL string, payload map[string]any) map[string]any {
	t.Helper()

	st, body := doJSON(t, c, "POST", baseURL+"/api/pets", payload)
	if st != http.StatusCreated {
		t.Fatalf("create pet: expected 201, got %d body=%s", st, body)
	}

	var resp map[string]any
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("create pet: bad JSON %s", body)
	}
	if resp["id"] == "" || resp["id"] == nil {
		t.Fatalf("create pet: missing id body=%s", body)
	}
	return resp
}

func TestHTTP_AuthFlow(t *testing.T) {
	ts := newServer(t)
	alice := newClient(t)

	// 1) Registro
	st, body := doJSON(t, alice, "POST", ts.URL+"/api/auth/register", map[string]string{
		"username": "alice", "email": "a@x.com", "password": "pw123",
	})
	if st != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d body=%s", st, body)
	}

	// 2) Username duplicado => 400
	st, _ = doJSON(t, alice, "POST", ts.URL+"/api/auth/register", map[string]string{
		"username": "alice", "email": "other@x.com", "password": "pw123",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("duplicate username: expected 400, got %d", st)
	}

	// 3) Email duplicado => 400
	st, _ = doJSON(t, alice, "POST", ts.URL+"/api/auth/register", map[string]string{
		"username": "alice2", "email": "a@x.com", "password": "pw123",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("duplicate email: expected 400, got %d", st)
	}

	// 4) Password incorrecto => 401
	st, _ = doJSON(t, alice, "POST", ts.URL+"/api/auth/login", map[string]string{
		"username": "alice", "password": "wrong",
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", st)
	}

	// 5) Sin sesión, /api/auth/user => 401
	st, _ = doJSON(t, alice, "GET", ts.URL+"/api/auth/user", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("user without session: expected 401, got %d", st)
	}

	// 6) Login correcto devuelve perfil y setea cookie
	st, body = doJSON(t, alice, "POST", ts.URL+"/api/auth/login", map[string]string{
		"username": "alice", "password": "pw123",
	})
	if st != http.StatusOK {
		t.Fatalf("login: expected 200, got %d body=%s", st, body)
	}
	var loginResp struct {
		User struct {
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"user"`
	}
	_ = json.Unmarshal(body, &loginResp)
	if loginResp.User.Username != "alice" || loginResp.User.Email != "a@x.com" {
		t.Fatalf("login: unexpected user body=%s", body)
	}

	// 7) Con sesión, /api/auth/user => 200
	st, body = doJSON(t, alice, "GET", ts.URL+"/api/auth/user", nil)
	if st != http.StatusOK {
		t.Fatalf("current user: expected 200, got %d body=%s", st, body)
	}

	// 8) Logout y la sesión deja de valer
	st, _ = doJSON(t, alice, "POST", ts.URL+"/api/auth/logout", nil)
	if st != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", st)
	}
	st, _ = doJSON(t, alice, "GET", ts.URL+"/api/auth/user", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("user after logout: expected 401, got %d", st)
	}
}

func TestHTTP_PetLifecycleAndOwnership(t *testing.T) {
	ts := newServer(t)

	alice := newClient(t)
	registerAndLogin(t, alice, ts.URL, "alice", "a@x.com", "pw123")

	// Crear sin sesión => 401
	anon := newClient(t)
	st, _ := doJSON(t, anon, "POST", ts.URL+"/api/pets", map[string]any{
		"name": "Rex", "species": "dog",
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("anon create: expected 401, got %d", st)
	}

	// Crear sin species => 400
	st, _ = doJSON(t, alice, "POST", ts.URL+"/api/pets", map[string]any{"name": "Rex"})
	if st != http.StatusBadRequest {
		t.Fatalf("create without species: expected 400, got %d", st)
	}

	pet := createPet(t, alice, ts.URL, map[string]any{
		"name": "Rex", "species": "dog", "description": "friendly",
	})
	if pet["owner"] != "alice" {
		t.Fatalf("expected owner alice, got %v", pet["owner"])
	}
	if pet["status"] != "available" {
		t.Fatalf("expected default status available, got %v", pet["status"])
	}
	petID := pet["id"].(string)

	// Listado público incluye a Rex
	st, body := doJSON(t, anon, "GET", ts.URL+"/api/pets", nil)
	if st != http.StatusOK {
		t.Fatalf("list pets: expected 200, got %d", st)
	}
	if !strings.Contains(string(body), `"Rex"`) {
		t.Fatalf("list pets: Rex missing body=%s", body)
	}

	// Get público por id
	st, _ = doJSON(t, anon, "GET", ts.URL+"/api/pets/"+petID, nil)
	if st != http.StatusOK {
		t.Fatalf("get pet: expected 200, got %d", st)
	}

	// Otro usuario logueado no puede mutar
	bob := newClient(t)
	registerAndLogin(t, bob, ts.URL, "bob", "b@x.com", "pw123")

	st, _ = doJSON(t, bob, "PUT", ts.URL+"/api/pets/"+petID, map[string]any{"name": "Stolen"})
	if st != http.StatusForbidden {
		t.Fatalf("bob update: expected 403, got %d", st)
	}
	st, _ = doJSON(t, bob, "DELETE", ts.URL+"/api/pets/"+petID, nil)
	if st != http.StatusForbidden {
		t.Fatalf("bob delete: expected 403, got %d", st)
	}

	// PATCH parcial por el owner: solo status, el resto queda
	st, body = doJSON(t, alice, "PUT", ts.URL+"/api/pets/"+petID, map[string]any{"status": "adopted"})
	if st != http.StatusOK {
		t.Fatalf("owner update: expected 200, got %d body=%s", st, body)
	}
	var updated map[string]any
	_ = json.Unmarshal(body, &updated)
	if updated["status"] != "adopted" || updated["name"] != "Rex" || updated["description"] != "friendly" {
		t.Fatalf("partial update wrong result: %s", body)
	}

	// Status desconocido => 400
	st, _ = doJSON(t, alice, "PUT", ts.URL+"/api/pets/"+petID, map[string]any{"status": "hibernating"})
	if st != http.StatusBadRequest {
		t.Fatalf("unknown status: expected 400, got %d", st)
	}

	// Delete por el owner, luego 404
	st, _ = doJSON(t, alice, "DELETE", ts.URL+"/api/pets/"+petID, nil)
	if st != http.StatusOK {
		t.Fatalf("owner delete: expected 200, got %d", st)
	}
	st, _ = doJSON(t, anon, "GET", ts.URL+"/api/pets/"+petID, nil)
	if st != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", st)
	}
}

func TestHTTP_SearchPets(t *testing.T) {
	ts := newServer(t)

	alice := newClient(t)
	registerAndLogin(t, alice, ts.URL, "alice", "a@x.com", "pw123")

	createPet(t, alice, ts.URL, map[string]any{"name": "fluffy", "species": "cat"})
	createPet(t, alice, ts.URL, map[string]any{"name": "Rex", "species": "dog", "description": "a fluffy dog"})
	createPet(t, alice, ts.URL, map[string]any{"name": "Bolt", "species": "dog", "status": "adopted"})

	anon := newClient(t)
	count := func(path string) int {
		t.Helper()
		st, body := doJSON(t, anon, "GET", ts.URL+path, nil)
		if st != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d body=%s", path, st, body)
		}
		var items []map[string]any
		if err := json.Unmarshal(body, &items); err != nil {
			t.Fatalf("%s: bad JSON %s", path, body)
		}
		return len(items)
	}

	if n := count("/api/search/pets?q=fluffy"); n != 2 {
		t.Fatalf("q=fluffy: expected 2, got %d", n)
	}
	if n := count("/api/search/pets?q=fluffy&species=dog"); n != 1 {
		t.Fatalf("q=fluffy&species=dog: expected 1, got %d", n)
	}
	if n := count("/api/search/pets?status=adopted"); n != 1 {
		t.Fatalf("status=adopted: expected 1, got %d", n)
	}
	if n := count("/api/search/pets"); n != 3 {
		t.Fatalf("no filters: expected 3, got %d", n)
	}
	// Substring case-sensitive: "Fluffy" no matchea a nadie.
	if n := count("/api/search/pets?q=Fluffy"); n != 0 {
		t.Fatalf("q=Fluffy: expected 0 matches, got %d", n)
	}
}

func TestHTTP_Incidents(t *testing.T) {
	ts := newServer(t)

	alice := newClient(t)
	registerAndLogin(t, alice, ts.URL, "alice", "a@x.com", "pw123")

	// Falta location => 400
	st, _ := doJSON(t, alice, "POST", ts.URL+"/api/incidents", map[string]any{
		"title": "Lost dog", "description": "Brown labrador", "incident_type": "lost_pet",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("missing location: expected 400, got %d", st)
	}

	// Tipo desconocido => 400
	st, _ = doJSON(t, alice, "POST", ts.URL+"/api/incidents", map[string]any{
		"title": "X", "description": "Y", "location": "Z", "incident_type": "ufo_sighting",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("unknown type: expected 400, got %d", st)
	}

	st, body := doJSON(t, alice, "POST", ts.URL+"/api/incidents", map[string]any{
		"title":         "Lost dog near the park",
		"description":   "Brown labrador, red collar",
		"location":      "Central Park",
		"incident_type": "lost_pet",
	})
	if st != http.StatusCreated {
		t.Fatalf("create incident: expected 201, got %d body=%s", st, body)
	}
	var inc map[string]any
	_ = json.Unmarshal(body, &inc)
	if inc["reporter"] != "alice" {
		t.Fatalf("expected reporter alice, got %v", inc["reporter"])
	}
	if inc["status"] != "open" {
		t.Fatalf("expected status open, got %v", inc["status"])
	}
	incID := inc["id"].(string)

	// Otro usuario no puede cerrar el reporte
	bob := newClient(t)
	registerAndLogin(t, bob, ts.URL, "bob", "b@x.com", "pw123")
	st, _ = doJSON(t, bob, "PUT", ts.URL+"/api/incidents/"+incID, map[string]any{"status": "closed"})
	if st != http.StatusForbidden {
		t.Fatalf("bob update incident: expected 403, got %d", st)
	}

	// Search por tipo
	anon := newClient(t)
	st, body = doJSON(t, anon, "GET", ts.URL+"/api/search/incidents?type=lost_pet", nil)
	if st != http.StatusOK {
		t.Fatalf("search incidents: expected 200, got %d", st)
	}
	var items []map[string]any
	_ = json.Unmarshal(body, &items)
	if len(items) != 1 {
		t.Fatalf("search incidents: expected 1, got %d body=%s", len(items), body)
	}
}

func TestHTTP_PetUploadRoundtrip(t *testing.T) {
	ts := newServer(t)

	alice := newClient(t)
	registerAndLogin(t, alice, ts.URL, "alice", "a@x.com", "pw123")

	imageBytes := []byte("fake png bytes")

	doMultipart := func(filename string) (int, []byte) {
		t.Helper()

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		_ = mw.WriteField("name", "Rex")
		_ = mw.WriteField("species", "dog")
		fw, err := mw.CreateFormFile("image", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(imageBytes); err != nil {
			t.Fatalf("write form file: %v", err)
		}
		_ = mw.Close()

		req, err := http.NewRequest("POST", ts.URL+"/api/pets", &buf)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())

		resp, err := alice.Do(req)
		if err != nil {
			t.Fatalf("do request: %v", err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, body
	}

	// Extensión prohibida => 400
	st, _ := doMultipart("photo.exe")
	if st != http.StatusBadRequest {
		t.Fatalf("exe upload: expected 400, got %d", st)
	}

	// png ok, y el archivo servido devuelve los bytes originales
	st, body := doMultipart("photo.png")
	if st != http.StatusCreated {
		t.Fatalf("png upload: expected 201, got %d body=%s", st, body)
	}
	var pet map[string]any
	_ = json.Unmarshal(body, &pet)
	imageURL, _ := pet["image_url"].(string)
	if !strings.HasPrefix(imageURL, "/uploads/") {
		t.Fatalf("expected /uploads/ image_url, got %q", imageURL)
	}

	resp, err := http.Get(ts.URL + imageURL)
	if err != nil {
		t.Fatalf("fetch upload: %v", err)
	}
	defer resp.Body.Close()
	got, _ := io.ReadAll(resp.Body)
	if !bytes.Equal(got, imageBytes) {
		t.Fatal("served image differs from uploaded bytes")
	}

	// Mismo filename, stored name distinto
	st, body = doMultipart("photo.png")
	if st != http.StatusCreated {
		t.Fatalf("second png upload: expected 201, got %d", st)
	}
	var pet2 map[string]any
	_ = json.Unmarshal(body, &pet2)
	if pet2["image_url"] == imageURL {
		t.Fatalf("expected distinct stored names, got %q twice", imageURL)
	}

	// image_url directo (sin archivo) se guarda tal cual
	created := createPet(t, alice, ts.URL, map[string]any{
		"name": "Bolt", "species": "dog", "image_url": "https://example.com/bolt.png",
	})
	if created["image_url"] != "https://example.com/bolt.png" {
		t.Fatalf("verbatim image_url not preserved: %v", created["image_url"])
	}
}

func TestHTTP_UnknownRouteReturnsJSON404(t *testing.T) {
	ts := newServer(t)
	anon := newClient(t)

	st, body := doJSON(t, anon, "GET", ts.URL+"/api/nope", nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", st)
	}
	if !strings.Contains(string(body), `"error":"Not found"`) {
		t.Fatalf("expected generic JSON 404 body, got %s", body)
	}
}

func TestHTTP_UnreachableDatabaseFallsBackToMemory(t *testing.T) {
	// sql.Open no conecta; el bootstrap de esquema es el primer round-trip
	// y falla contra un puerto cerrado, degradando a los repos in-memory.
	db, err := sql.Open("pgx", "postgres://u:p@127.0.0.1:1/nope?sslmode=disable")
	if err != nil {
		t.Fatalf("sql open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ts := httptest.NewServer(router.NewRouter(router.Options{
		DB:        db,
		UploadDir: t.TempDir(),
	}))
	t.Cleanup(ts.Close)

	alice := newClient(t)
	registerAndLogin(t, alice, ts.URL, "alice", "alice@example.com", "s3cret")

	created := createPet(t, alice, ts.URL, map[string]any{
		"name": "Rex", "species": "dog",
	})
	if created["owner"] != "alice" {
		t.Fatalf("expected owner alice, got %v", created["owner"])
	}
}
