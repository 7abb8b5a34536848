package routes_test

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/JaimeStill/shoreline/pkg/openapi"
	"github.com/JaimeStill/shoreline/pkg/routes"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRegisterNestedGroups(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/drafts",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: ok},
			{Method: "GET", Pattern: "/{id}", Handler: ok},
		},
		Children: []routes.Group{{
			Prefix: "/{id}/photos",
			Routes: []routes.Route{{Method: "PUT", Pattern: "/{slot}", Handler: ok}},
		}},
	})

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"POST", "/drafts", http.StatusOK},
		{"GET", "/drafts/abc", http.StatusOK},
		{"PUT", "/drafts/abc/photos/product", http.StatusOK},
		{"DELETE", "/drafts/abc", http.StatusMethodNotAllowed},
		{"GET", "/contributions", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestGroupMiddlewareInheritance(t *testing.T) {
	var calls []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls = append(calls, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	mux := http.NewServeMux()
	routes.Register(mux,
		routes.Group{
			Prefix: "/drafts",
			Routes: []routes.Route{{Method: "GET", Pattern: "", Handler: ok}},
		},
		routes.Group{
			Middleware: []func(http.Handler) http.Handler{tag("auth")},
			Children: []routes.Group{
				{
					Prefix: "/contributions",
					Routes: []routes.Route{{Method: "GET", Pattern: "", Handler: ok}},
				},
				{
					Prefix:     "/settings",
					Middleware: []func(http.Handler) http.Handler{tag("audit")},
					Routes:     []routes.Route{{Method: "PUT", Pattern: "/ai", Handler: ok}},
				},
			},
		},
	)

	tests := []struct {
		method string
		path   string
		want   []string
	}{
		{"GET", "/drafts", nil},
		{"GET", "/contributions", []string{"auth"}},
		{"PUT", "/settings/ai", []string{"auth", "audit"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			calls = nil
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d", rec.Code)
			}
			if !slices.Equal(calls, tt.want) {
				t.Errorf("middleware: got %v, want %v", calls, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	spec := openapi.NewSpec("Shoreline API", "0.1.0")
	listOp := &openapi.Operation{Summary: "list"}
	downloadOp := &openapi.Operation{Summary: "download"}

	routes.Describe(spec,
		routes.Group{
			Prefix: "/contributions",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: ok, OpenAPI: listOp},
				{Method: "POST", Pattern: "/{id}/classify", Handler: ok},
			},
		},
		routes.Group{
			Children: []routes.Group{{
				Prefix: "/storage",
				Routes: []routes.Route{{Method: "GET", Pattern: "/{key...}", Handler: ok, OpenAPI: downloadOp}},
			}},
		},
	)

	if item := spec.Paths["/contributions"]; item == nil || item.Get != listOp {
		t.Errorf("/contributions: got %+v", item)
	}
	if item := spec.Paths["/storage/{key}"]; item == nil || item.Get != downloadOp {
		t.Errorf("/storage/{key}: got %+v", item)
	}
	if _, ok := spec.Paths["/contributions/{id}/classify"]; ok {
		t.Error("undocumented route should be left out")
	}
}
