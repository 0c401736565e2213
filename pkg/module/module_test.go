package module_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reclaimhq/reclaim/pkg/module"
)

func newTestModule(prefix string) *module.Module {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /items", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("items"))
	})
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("root"))
	})
	return module.New(prefix, mux)
}

func TestNewValidatesPrefix(t *testing.T) {
	tests := []struct {
		name      string
		prefix    string
		wantPanic bool
	}{
		{"valid prefix", "/api", false},
		{"empty prefix", "", true},
		{"missing slash", "api", true},
		{"multi-level", "/api/v1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				recovered := recover()
				if tt.wantPanic && recovered == nil {
					t.Error("expected panic")
				}
				if !tt.wantPanic && recovered != nil {
					t.Errorf("unexpected panic: %v", recovered)
				}
			}()
			module.New(tt.prefix, http.NewServeMux())
		})
	}
}

func TestModuleStripsPrefix(t *testing.T) {
	m := newTestModule("/api")

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest("GET", "/api/items", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "items" {
		t.Errorf("body = %q, want items", got)
	}
}

func TestModuleBarePrefixServesRoot(t *testing.T) {
	m := newTestModule("/api")

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest("GET", "/api", nil))

	if got := rec.Body.String(); got != "root" {
		t.Errorf("body = %q, want root", got)
	}
}

func TestModuleMiddlewareApplied(t *testing.T) {
	m := newTestModule("/api")
	m.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Test", "applied")
			next.ServeHTTP(w, r)
		})
	})

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest("GET", "/api/items", nil))

	if got := rec.Header().Get("X-Test"); got != "applied" {
		t.Errorf("X-Test header = %q, want applied", got)
	}
}

func TestRouterDispatchesToModule(t *testing.T) {
	router := module.NewRouter()
	router.Mount(newTestModule("/api"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/items", nil))

	if got := rec.Body.String(); got != "items" {
		t.Errorf("body = %q, want items", got)
	}
}

func TestRouterNativeFallback(t *testing.T) {
	router := module.NewRouter()
	router.Mount(newTestModule("/api"))
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	if got := rec.Body.String(); got != "ok" {
		t.Errorf("body = %q, want ok", got)
	}
}

func TestRouterTrailingSlashNormalized(t *testing.T) {
	router := module.NewRouter()
	router.Mount(newTestModule("/api"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/items/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRouterUnknownPath(t *testing.T) {
	router := module.NewRouter()
	router.Mount(newTestModule("/api"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
