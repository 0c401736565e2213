package openapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reclaimhq/reclaim/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec("Test API", "1.0.0")

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi version: got %s, want 3.1.0", spec.OpenAPI)
	}
	if spec.Info.Title != "Test API" {
		t.Errorf("title: got %s, want Test API", spec.Info.Title)
	}
	if spec.Components == nil {
		t.Fatal("components should not be nil")
	}
	if spec.Paths == nil {
		t.Fatal("paths should not be nil")
	}
}

func TestNewComponentsResponses(t *testing.T) {
	c := openapi.NewComponents()
	for _, name := range []string{"BadRequest", "NotFound", "Conflict", "Unavailable"} {
		if _, ok := c.Responses[name]; !ok {
			t.Errorf("missing component response %s", name)
		}
	}
	if _, ok := c.Schemas["PageRequest"]; !ok {
		t.Error("missing PageRequest schema")
	}
}

func TestSchemaRef(t *testing.T) {
	ref := openapi.SchemaRef("Claim")
	if ref.Ref != "#/components/schemas/Claim" {
		t.Errorf("ref: got %s", ref.Ref)
	}
}

func TestResponseRef(t *testing.T) {
	ref := openapi.ResponseRef("NotFound")
	if ref.Ref != "#/components/responses/NotFound" {
		t.Errorf("ref: got %s", ref.Ref)
	}
}

func TestRequestBodyJSON(t *testing.T) {
	rb := openapi.RequestBodyJSON("CreateClaim", true)

	if !rb.Required {
		t.Error("required should be true")
	}
	ct, ok := rb.Content["application/json"]
	if !ok {
		t.Fatal("missing application/json content type")
	}
	if ct.Schema.Ref != "#/components/schemas/CreateClaim" {
		t.Errorf("schema ref: got %s", ct.Schema.Ref)
	}
}

func TestPathParam(t *testing.T) {
	p := openapi.PathParam("claim_id", "string", "uuid", "Claim ID")

	if p.Name != "claim_id" || p.In != "path" {
		t.Errorf("got name=%s in=%s", p.Name, p.In)
	}
	if !p.Required {
		t.Error("path params should be required")
	}
	if p.Schema.Type != "string" || p.Schema.Format != "uuid" {
		t.Errorf("schema: got type=%s format=%s", p.Schema.Type, p.Schema.Format)
	}
}

func TestMarshalJSON(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	spec.Paths["/items"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List items",
			Responses: map[int]*openapi.Response{
				200: {Description: "OK"},
			},
		},
	}

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("MarshalJSON error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if decoded["openapi"] != "3.1.0" {
		t.Errorf("openapi = %v", decoded["openapi"])
	}
}

func TestServeSpec(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("MarshalJSON error: %v", err)
	}

	rec := httptest.NewRecorder()
	openapi.ServeSpec(data)(rec, httptest.NewRequest("GET", "/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if string(body) != string(data) {
		t.Error("served bytes differ from marshaled spec")
	}
}
