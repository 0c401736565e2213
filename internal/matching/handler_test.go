package matching_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/reclaimhq/reclaim/internal/matching"
	"github.com/reclaimhq/reclaim/pkg/routes"
)

func testMux(t *testing.T, sys matching.System) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	routes.Register(mux, matching.NewHandler(sys, discardLogger()).Routes())
	return mux
}

func TestHandlerMatchInvalidID(t *testing.T) {
	engine := matching.NewEngine(&fakeSource{}, &fakeScorer{}, matching.Options{}, discardLogger())
	mux := testMux(t, engine)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/matches/not-a-uuid", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerMatchUnknownClaim(t *testing.T) {
	engine := matching.NewEngine(
		&fakeSource{claims: map[uuid.UUID]*matching.ClaimKey{}},
		&fakeScorer{},
		matching.Options{TopK: 3},
		discardLogger(),
	)
	mux := testMux(t, engine)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/matches/"+uuid.NewString(), nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want empty array", body)
	}
}
