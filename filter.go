package didl

import "strings"

// Filter is the set of optional field tokens a control point asked for.
// Fields whose token is absent are omitted from the output. The single token
// "*" requests everything.
type Filter map[string]struct{}

// NewFilter builds a filter from a comma-separated field specification, the
// form the ContentDirectory Browse action delivers it in.
func NewFilter(spec string) Filter {
	f := Filter{}
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			f[tok] = struct{}{}
		}
	}
	return f
}

// Contains reports whether the given field token was requested.
func (f Filter) Contains(token string) bool {
	if _, ok := f["*"]; ok {
		return true
	}
	_, ok := f[token]
	return ok
}
