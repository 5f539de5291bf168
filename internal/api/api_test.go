package api

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/erazemk/precificacao/internal/db"
	"github.com/erazemk/precificacao/internal/model"
	"github.com/erazemk/precificacao/internal/static"
)

const indexHTML = "<!doctype html><title>Precificação</title>"

func setupTestServer(t *testing.T) (*httptest.Server, *sql.DB, *Router) {
	t.Helper()
	database := db.NewTestDB(t)

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "index.html"), []byte(indexHTML), 0o644); err != nil {
		t.Fatal(err)
	}
	files, err := static.New(root)
	if err != nil {
		t.Fatal(err)
	}

	router := NewRouter(database, files)
	server := httptest.NewServer(LoggingMiddleware(RecoverMiddleware(router)))
	t.Cleanup(server.Close)

	return server, database, router
}

func doRequest(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp, data
}

func errorMessage(t *testing.T, data []byte) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("expected JSON error body, got %q: %v", data, err)
	}
	if len(body) != 1 {
		t.Errorf("expected a single error field, got %v", body)
	}
	return body["error"]
}

func listItems(t *testing.T, server *httptest.Server) []model.Item {
	t.Helper()
	resp, data := doRequest(t, http.MethodGet, server.URL+"/api/items", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var items []model.Item
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatalf("decoding items: %v", err)
	}
	return items
}

func createItem(t *testing.T, server *httptest.Server, body string) int64 {
	t.Helper()
	resp, data := doRequest(t, http.MethodPost, server.URL+"/api/items", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, data)
	}
	var created map[string]int64
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	return created["id"]
}

const validBody = `{"nome":"  Farinha de trigo  ","categoria":"ingredient","quantidade_base":1000,"tipo_quantidade":" g ","preco_por_quantidade":4.5}`

func TestListEmpty(t *testing.T) {
	server, _, _ := setupTestServer(t)

	resp, data := doRequest(t, http.MethodGet, server.URL+"/api/items", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("expected JSON content type, got %q", ct)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("expected empty array, got %q", data)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestItemsAPIFlow(t *testing.T) {
	server, _, _ := setupTestServer(t)

	id := createItem(t, server, validBody)
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}

	items := listItems(t, server)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	want := model.Item{
		ID:                 id,
		Nome:               "Farinha de trigo",
		Categoria:          model.CategoryIngredient,
		QuantidadeBase:     1000,
		TipoQuantidade:     "g",
		PrecoPorQuantidade: 4.5,
	}
	if items[0] != want {
		t.Errorf("expected %+v, got %+v", want, items[0])
	}

	// Update replaces every field.
	resp, data := doRequest(t, http.MethodPut, server.URL+"/api/items/"+itoa(id),
		`{"nome":"Hora de trabalho","categoria":"labor","quantidade_base":"1","tipo_quantidade":"h","preco_por_quantidade":0}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, data)
	}
	if strings.TrimSpace(string(data)) != `{"success":true}` {
		t.Errorf("unexpected update body %q", data)
	}

	items = listItems(t, server)
	if len(items) != 1 || items[0].Nome != "Hora de trabalho" || items[0].Categoria != model.CategoryLabor || items[0].ID != id {
		t.Errorf("unexpected items after update: %+v", items)
	}

	// Delete.
	resp, data = doRequest(t, http.MethodDelete, server.URL+"/api/items/"+itoa(id), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, data)
	}
	if len(listItems(t, server)) != 0 {
		t.Error("expected no items after delete")
	}
}

func TestListOrderedByName(t *testing.T) {
	server, _, _ := setupTestServer(t)

	for _, nome := range []string{"Manteiga", "Cenoura", "Leite"} {
		createItem(t, server, `{"nome":"`+nome+`","categoria":"ingredient","quantidade_base":1,"tipo_quantidade":"g","preco_por_quantidade":1}`)
	}

	items := listItems(t, server)
	want := []string{"Cenoura", "Leite", "Manteiga"}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, nome := range want {
		if items[i].Nome != nome {
			t.Errorf("position %d: expected %q, got %q", i, nome, items[i].Nome)
		}
	}
}

func TestCreateErrors(t *testing.T) {
	server, _, _ := setupTestServer(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed JSON", `{"nome":`, "invalid JSON"},
		{"array body", `[1,2]`, "invalid JSON"},
		{"string body", `"Gás"`, "invalid JSON"},
		{"null body", `null`, "invalid JSON"},
		{"null body with whitespace", " null\n", "invalid JSON"},
		{"empty body", ``, "name required"},
		{"category reported before quantity", `{"nome":"Gás","categoria":"fuel","quantidade_base":0,"tipo_quantidade":"un","preco_por_quantidade":1}`, "invalid category"},
		{"zero quantity", `{"nome":"Gás","categoria":"other_cost","quantidade_base":0,"tipo_quantidade":"un","preco_por_quantidade":1}`, "base quantity must be greater than zero"},
		{"missing unit", `{"nome":"Gás","categoria":"other_cost","quantidade_base":1,"preco_por_quantidade":1}`, "unit required"},
		{"negative price", `{"nome":"Gás","categoria":"other_cost","quantidade_base":1,"tipo_quantidade":"un","preco_por_quantidade":-0.01}`, "price cannot be negative"},
		{"non-numeric quantity", `{"nome":"Gás","categoria":"other_cost","quantidade_base":"um","tipo_quantidade":"un","preco_por_quantidade":1}`, "invalid input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := doRequest(t, http.MethodPost, server.URL+"/api/items", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", resp.StatusCode, data)
			}
			if got := errorMessage(t, data); got != tt.want {
				t.Errorf("expected error %q, got %q", tt.want, got)
			}
		})
	}

	if len(listItems(t, server)) != 0 {
		t.Error("rejected requests must not create rows")
	}
}

func TestCreateAcceptsZeroPrice(t *testing.T) {
	server, _, _ := setupTestServer(t)

	createItem(t, server, `{"nome":"Brinde","categoria":"other_cost","quantidade_base":1,"tipo_quantidade":"un","preco_por_quantidade":0}`)
}

func TestCreatePayloadTooLarge(t *testing.T) {
	_, _, router := setupTestServer(t)

	body := `{"nome":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader(body)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := errorMessage(t, rec.Body.Bytes()); got != "payload too large" {
		t.Errorf("expected 'payload too large', got %q", got)
	}
}

func TestUpdateErrors(t *testing.T) {
	server, _, _ := setupTestServer(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		want   string
	}{
		{"non-integer id", "/api/items/abc", validBody, http.StatusBadRequest, "invalid id"},
		{"empty id", "/api/items/", validBody, http.StatusBadRequest, "invalid id"},
		{"id checked before JSON", "/api/items/x1", `{bad`, http.StatusBadRequest, "invalid id"},
		{"malformed JSON", "/api/items/1", `{bad`, http.StatusBadRequest, "invalid JSON"},
		{"validation", "/api/items/1", `{"nome":""}`, http.StatusBadRequest, "name required"},
		{"missing id", "/api/items/999", validBody, http.StatusNotFound, "item not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := doRequest(t, http.MethodPut, server.URL+tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, resp.StatusCode, data)
			}
			if got := errorMessage(t, data); got != tt.want {
				t.Errorf("expected error %q, got %q", tt.want, got)
			}
		})
	}

	if len(listItems(t, server)) != 0 {
		t.Error("update of a missing id must not create rows")
	}
}

func TestDeleteErrors(t *testing.T) {
	server, _, _ := setupTestServer(t)

	resp, data := doRequest(t, http.MethodDelete, server.URL+"/api/items/abc", "")
	if resp.StatusCode != http.StatusBadRequest || errorMessage(t, data) != "invalid id" {
		t.Errorf("expected 400 invalid id, got %d: %s", resp.StatusCode, data)
	}

	resp, data = doRequest(t, http.MethodDelete, server.URL+"/api/items/12345", "")
	if resp.StatusCode != http.StatusNotFound || errorMessage(t, data) != "item not found" {
		t.Errorf("expected 404 item not found, got %d: %s", resp.StatusCode, data)
	}
}

func TestUnknownAPIRoutes(t *testing.T) {
	server, _, _ := setupTestServer(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/items/1"},
		{http.MethodPatch, "/api/items"},
		{http.MethodPost, "/api/items/1"},
		{http.MethodGet, "/api/other"},
		{http.MethodGet, "/api"},
		{http.MethodDelete, "/api/items"},
		{http.MethodPut, "/api/items/1/extra"},
		{http.MethodPost, "/index.html"},
	}

	for _, tt := range tests {
		resp, data := doRequest(t, tt.method, server.URL+tt.path, "")
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", tt.method, tt.path, resp.StatusCode)
			continue
		}
		if got := errorMessage(t, data); got != "route not found" {
			t.Errorf("%s %s: expected 'route not found', got %q", tt.method, tt.path, got)
		}
	}
}

func TestStaticFallback(t *testing.T) {
	server, _, router := setupTestServer(t)

	resp, data := doRequest(t, http.MethodGet, server.URL+"/", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for /, got %d", resp.StatusCode)
	}
	if string(data) != indexHTML {
		t.Errorf("expected index.html contents, got %q", data)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("expected HTML content type, got %q", ct)
	}

	resp, _ = doRequest(t, http.MethodGet, server.URL+"/nonexistent.txt", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("expected plain text 404, got %q", ct)
	}

	// The HTTP client may normalize dot segments, so go through the router directly.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.Path = "/../server_config"
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for traversal, got %d", rec.Code)
	}
}

func TestStoreFailureReturnsInternalError(t *testing.T) {
	server, database, _ := setupTestServer(t)
	database.Close()

	resp, data := doRequest(t, http.MethodGet, server.URL+"/api/items", "")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if got := errorMessage(t, data); got != "internal error" {
		t.Errorf("expected 'internal error', got %q", got)
	}
}

func TestRecoverMiddleware(t *testing.T) {
	handler := RecoverMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := errorMessage(t, rec.Body.Bytes()); got != "internal error" {
		t.Errorf("expected 'internal error', got %q", got)
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		ok      bool
		params  map[string]string
	}{
		{"/api/items", "/api/items", true, map[string]string{}},
		{"/api/items", "/api/items/", false, nil},
		{"/api/items/{id}", "/api/items/7", true, map[string]string{"id": "7"}},
		{"/api/items/{id}", "/api/items/", true, map[string]string{"id": ""}},
		{"/api/items/{id}", "/api/items/7/8", false, nil},
		{"/api/{rest...}", "/api", true, map[string]string{"rest": ""}},
		{"/api/{rest...}", "/api/a/b", true, map[string]string{"rest": "a/b"}},
		{"/api/{rest...}", "/apiary", false, nil},
		{"/{path...}", "/", true, map[string]string{"path": ""}},
		{"/{path...}", "/css/site.css", true, map[string]string{"path": "css/site.css"}},
	}

	for _, tt := range tests {
		params, ok := match(tt.pattern, tt.path)
		if ok != tt.ok {
			t.Errorf("match(%q, %q) ok = %v, want %v", tt.pattern, tt.path, ok, tt.ok)
			continue
		}
		for k, v := range tt.params {
			if params[k] != v {
				t.Errorf("match(%q, %q)[%q] = %q, want %q", tt.pattern, tt.path, k, params[k], v)
			}
		}
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
