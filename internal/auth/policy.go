package auth

import (
	"net/http"
	"sort"
	"strings"
)

// Requirement is what a route demands of the caller.
type Requirement int

const (
	// Public routes are served regardless of authentication state.
	Public Requirement = iota
	// Authenticated routes require an Identity on the request context.
	Authenticated
)

// Rule maps a route pattern to a requirement. A pattern is either an exact
// path ("/ping") or a prefix wildcard ("/api/users/*" matches everything
// under /api/users/).
type Rule struct {
	Pattern     string
	Requirement Requirement
}

// Policy is a static table of route-pattern → requirement, evaluated after
// the Authenticate middleware has had its chance to attach an identity.
//
// Evaluation picks the most specific (longest) matching pattern. Routes that
// match no rule default to Authenticated, so forgetting to list a new
// endpoint fails closed rather than open.
type Policy struct {
	rules []Rule
}

// NewPolicy builds a Policy from the given rules. Rules are ordered most
// specific first at construction time so lookups are a single scan.
func NewPolicy(rules ...Rule) *Policy {
	ordered := make([]Rule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Pattern) > len(ordered[j].Pattern)
	})
	return &Policy{rules: ordered}
}

// Requirement returns the requirement for the given request path.
func (p *Policy) Requirement(path string) Requirement {
	for _, r := range p.rules {
		if matches(r.Pattern, path) {
			return r.Requirement
		}
	}
	return Authenticated
}

func matches(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(path, prefix)
	}
	return pattern == path
}

// Enforce returns the middleware that applies the policy. It must be mounted
// after Authenticate: when the route requires authentication and no identity
// was attached, it answers 401 before the handler runs.
func (p *Policy) Enforce(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.Requirement(r.URL.Path) == Authenticated {
			if _, ok := IdentityFromContext(r.Context()); !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
