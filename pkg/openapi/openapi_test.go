package openapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/shoreline/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec("Shoreline API", "0.1.0")
	spec.AddServer("/api")
	spec.SetDescription("beach plastic reports")

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi: got %s", spec.OpenAPI)
	}
	if spec.Info.Title != "Shoreline API" || spec.Info.Version != "0.1.0" || spec.Info.Description != "beach plastic reports" {
		t.Errorf("info: got %+v", spec.Info)
	}
	if len(spec.Servers) != 1 || spec.Servers[0].URL != "/api" {
		t.Errorf("servers: got %+v", spec.Servers)
	}
	if spec.Paths == nil || spec.Components == nil {
		t.Fatal("paths and components must be initialized")
	}
	for _, name := range []string{"BadRequest", "Unauthorized", "NotFound", "Conflict", "UnprocessableEntity"} {
		if _, ok := spec.Components.Responses[name]; !ok {
			t.Errorf("missing response %s", name)
		}
	}
}

func TestPathItemSet(t *testing.T) {
	ops := map[string]*openapi.Operation{}
	item := &openapi.PathItem{}
	for _, m := range []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"} {
		ops[m] = &openapi.Operation{Summary: m}
		item.Set(m, ops[m])
	}

	got := map[string]*openapi.Operation{
		"GET":    item.Get,
		"POST":   item.Post,
		"PUT":    item.Put,
		"PATCH":  item.Patch,
		"DELETE": item.Delete,
	}
	for m, op := range got {
		if op != ops[m] {
			t.Errorf("%s: got %v", m, op)
		}
	}
}

func TestHelpers(t *testing.T) {
	if got := openapi.SchemaRef("Draft").Ref; got != "#/components/schemas/Draft" {
		t.Errorf("SchemaRef: got %s", got)
	}
	if got := openapi.ResponseRef("NotFound").Ref; got != "#/components/responses/NotFound" {
		t.Errorf("ResponseRef: got %s", got)
	}

	body := openapi.RequestBodyJSON("ClassifyCommand", true)
	if !body.Required || body.Content["application/json"].Schema.Ref != "#/components/schemas/ClassifyCommand" {
		t.Errorf("RequestBodyJSON: got %+v", body)
	}

	resp := openapi.ResponseJSON("ok", "Contribution")
	if resp.Description != "ok" || resp.Content["application/json"].Schema.Ref != "#/components/schemas/Contribution" {
		t.Errorf("ResponseJSON: got %+v", resp)
	}

	p := openapi.PathParam("id", "Draft UUID")
	if p.In != "path" || !p.Required || p.Schema.Format != "uuid" {
		t.Errorf("PathParam: got %+v", p)
	}

	q := openapi.QueryParam("min_latitude", "number", "", false)
	if q.In != "query" || q.Required || q.Schema.Type != "number" {
		t.Errorf("QueryParam: got %+v", q)
	}

	e := openapi.EnumPathParam("slot", "Photo slot", "product", "back")
	if len(e.Schema.Enum) != 2 || e.Schema.Enum[0] != "product" {
		t.Errorf("EnumPathParam: got %+v", e.Schema)
	}
}

func TestServeSpec(t *testing.T) {
	spec := openapi.NewSpec("Shoreline API", "0.1.0")
	spec.Components.AddSchemas(map[string]*openapi.Schema{"Settings": {Type: "object"}})

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	rec := httptest.NewRecorder()
	openapi.ServeSpec(data)(rec, httptest.NewRequest("GET", "/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content type: got %s", ct)
	}

	var decoded openapi.Spec
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := decoded.Components.Schemas["Settings"]; !ok {
		t.Error("added schema missing from served document")
	}
}

func TestConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cfg openapi.Config
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg.Title != "Shoreline API" || cfg.Description == "" {
			t.Errorf("got %+v", cfg)
		}
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("DOC_TITLE", "Reef API")

		var cfg openapi.Config
		if err := cfg.Finalize(&openapi.ConfigEnv{Title: "DOC_TITLE"}); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg.Title != "Reef API" {
			t.Errorf("title: got %s", cfg.Title)
		}
	})

	t.Run("merge", func(t *testing.T) {
		cfg := openapi.Config{Title: "Shoreline API", Description: "base"}
		cfg.Merge(&openapi.Config{Description: "overlay"})
		if cfg.Title != "Shoreline API" || cfg.Description != "overlay" {
			t.Errorf("got %+v", cfg)
		}
	})
}
