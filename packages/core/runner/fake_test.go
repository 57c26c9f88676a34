package runner

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// fakeReqres serves the subset of the ReqRes API the built-in suite uses.
type fakeReqres struct {
	*httptest.Server
	hits atomic.Int64
}

func newFakeReqres(t *testing.T) *fakeReqres {
	t.Helper()
	f := &fakeReqres{}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeReqres) serve(w http.ResponseWriter, r *http.Request) {
	f.hits.Add(1)

	if r.Header.Get("x-api-key") == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Missing API key"})
		return
	}

	var body map[string]any
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	users := map[string]any{
		"page": 1,
		"data": []map[string]any{
			{"id": 1, "email": "george.bluth@reqres.in"},
			{"id": 2, "email": "janet.weaver@reqres.in"},
		},
	}
	resources := map[string]any{
		"page": 1,
		"data": []map[string]any{
			{"id": 1, "name": "cerulean"},
			{"id": 2, "name": "fuchsia rose"},
		},
	}

	switch path := r.URL.Path; {
	case r.Method == http.MethodGet && path == "/api/users":
		writeJSON(w, http.StatusOK, users)
	case r.Method == http.MethodGet && path == "/api/users/2":
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"id": 2, "first_name": "Janet"}})
	case r.Method == http.MethodGet && path == "/api/unknown":
		writeJSON(w, http.StatusOK, resources)
	case r.Method == http.MethodGet && path == "/api/unknown/2":
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"id": 2, "name": "fuchsia rose"}})
	case r.Method == http.MethodPost && path == "/api/users":
		body["id"] = "123"
		writeJSON(w, http.StatusCreated, body)
	case (r.Method == http.MethodPut || r.Method == http.MethodPatch) && path == "/api/users/2":
		body["updatedAt"] = "2024-01-01T00:00:00.000Z"
		writeJSON(w, http.StatusOK, body)
	case r.Method == http.MethodDelete && path == "/api/users/2":
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodPost && (path == "/api/register" || path == "/api/login"):
		if _, ok := body["password"]; !ok {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Missing password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": 4, "token": "QpwL5tke4Pnpja7X4"})
	case strings.HasPrefix(path, "/api/"):
		writeJSON(w, http.StatusNotFound, map[string]any{})
	default:
		http.NotFound(w, r)
	}
}
