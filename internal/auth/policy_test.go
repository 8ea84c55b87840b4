package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func testPolicy() *Policy {
	return NewPolicy(
		Rule{Pattern: "/ping", Requirement: Public},
		Rule{Pattern: "/api/auth/login", Requirement: Public},
		Rule{Pattern: "/api/users/*", Requirement: Authenticated},
	)
}

// =========================================================================
// MATCHING TESTS
// =========================================================================

func TestPolicy_Requirement(t *testing.T) {
	p := testPolicy()

	tests := []struct {
		path string
		want Requirement
	}{
		{"/ping", Public},
		{"/api/auth/login", Public},
		{"/api/users/all", Authenticated},
		{"/api/users/create", Authenticated},
		{"/api/users/delete/abc", Authenticated},
		// unmatched routes default to authenticated
		{"/", Authenticated},
		{"/metrics", Authenticated},
		{"/pingx", Authenticated},
	}

	for _, tt := range tests {
		if got := p.Requirement(tt.path); got != tt.want {
			t.Errorf("Requirement(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestPolicy_MostSpecificPatternWins(t *testing.T) {
	// A broad authenticated wildcard plus a narrower public carve-out: the
	// longer pattern must win regardless of declaration order.
	p := NewPolicy(
		Rule{Pattern: "/api/*", Requirement: Authenticated},
		Rule{Pattern: "/api/auth/login", Requirement: Public},
	)

	if got := p.Requirement("/api/auth/login"); got != Public {
		t.Errorf("Requirement(/api/auth/login) = %v, want Public", got)
	}
	if got := p.Requirement("/api/users/all"); got != Authenticated {
		t.Errorf("Requirement(/api/users/all) = %v, want Authenticated", got)
	}
}

// =========================================================================
// ENFORCEMENT TESTS
// =========================================================================

func enforce(t *testing.T, p *Policy, path string, identity *Identity) *httptest.ResponseRecorder {
	t.Helper()

	h := p.Enforce(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if identity != nil {
		req = req.WithContext(ContextWithIdentity(req.Context(), identity))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestEnforce_ProtectedWithoutIdentity(t *testing.T) {
	rr := enforce(t, testPolicy(), "/api/users/all", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Enforce() status = %d, want 401", rr.Code)
	}
}

func TestEnforce_ProtectedWithIdentity(t *testing.T) {
	rr := enforce(t, testPolicy(), "/api/users/all", &Identity{ID: "u1", Username: "johndoe"})
	if rr.Code != http.StatusOK {
		t.Errorf("Enforce() status = %d, want 200", rr.Code)
	}
}

func TestEnforce_PublicWithoutIdentity(t *testing.T) {
	rr := enforce(t, testPolicy(), "/ping", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("Enforce() status = %d, want 200 for public route", rr.Code)
	}
}

func TestEnforce_UnlistedRouteFailsClosed(t *testing.T) {
	rr := enforce(t, testPolicy(), "/api/admin/secret", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Enforce() status = %d, want 401 for unlisted route", rr.Code)
	}
}
