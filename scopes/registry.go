package scopes

// Registry owns the full scope catalog. Validity of a requested scope is
// always checked against the catalog; scopes are never invented at
// request time. The catalog is immutable once built, so lookups need no
// locking.
type Registry struct {
	catalog map[string]*Scope
}

// NewRegistry builds a registry from the configured catalog.
func NewRegistry(catalog []Scope) *Registry {
	r := &Registry{catalog: make(map[string]*Scope, len(catalog))}
	for i := range catalog {
		s := catalog[i]
		r.catalog[s.Name] = &s
	}
	return r
}

// Exists reports whether a scope name is part of the catalog.
func (r *Registry) Exists(name string) bool {
	_, ok := r.catalog[name]
	return ok
}

// Valid returns the residual scope string: the requested scopes that are
// in the catalog, in request order. Unknown scopes are silently dropped
// rather than erroring; callers that want them use Rejected.
func (r *Registry) Valid(requested string) string {
	var valid []string
	for _, name := range Split(requested) {
		if r.Exists(name) {
			valid = append(valid, name)
		}
	}
	return Join(valid)
}

// Rejected returns the requested scopes that are not in the catalog, for
// client-visible diagnostics.
func (r *Registry) Rejected(requested string) string {
	var rejected []string
	for _, name := range Split(requested) {
		if !r.Exists(name) {
			rejected = append(rejected, name)
		}
	}
	return Join(rejected)
}

// Claims projects the attributes each requested scope is entitled to
// expose. Attributes not granted by any of the scopes never appear in
// the result, whatever the session has accumulated.
func (r *Registry) Claims(attributes map[string]string, scopeNames []string) map[string]string {
	claims := make(map[string]string)
	for _, name := range scopeNames {
		scope, ok := r.catalog[name]
		if !ok {
			continue
		}
		for _, claim := range scope.Claims {
			if v, ok := attributes[claim]; ok {
				claims[claim] = v
			}
		}
	}
	return claims
}
