package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
)

// Auth returns middleware that validates Authorization bearer tokens against
// the configured OIDC issuer. The provider is resolved lazily on first use so
// the service can start before the issuer is reachable. Passes through when
// disabled.
func Auth(cfg *AuthConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	v := &verifier{cfg: cfg, logger: logger.With("middleware", "auth")}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			if err := v.verify(r, token); err != nil {
				v.logger.Warn("token rejected", "error", err)
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type verifier struct {
	cfg    *AuthConfig
	logger *slog.Logger

	mu  sync.Mutex
	idv *oidc.IDTokenVerifier
}

func (v *verifier) verify(r *http.Request, token string) error {
	idv, err := v.tokenVerifier(r)
	if err != nil {
		return err
	}

	_, err = idv.Verify(r.Context(), token)
	return err
}

func (v *verifier) tokenVerifier(r *http.Request) (*oidc.IDTokenVerifier, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.idv != nil {
		return v.idv, nil
	}

	provider, err := oidc.NewProvider(r.Context(), v.cfg.Issuer)
	if err != nil {
		return nil, err
	}

	oc := &oidc.Config{ClientID: v.cfg.Audience}
	if v.cfg.Audience == "" {
		oc.SkipClientIDCheck = true
	}

	v.idv = provider.Verifier(oc)
	return v.idv, nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
