package wex

import (
	"github.com/arjunvbhat/wex/internal/pattern"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// reverser keeps track of named patterns and builds concrete URLs from
// them, built on this framework's ":name" pattern syntax instead of the
// standard library's "{name}" syntax.
type reverser struct {
	pats map[string]*pattern.Pattern
}

func newReverser() *reverser {
	return &reverser{pats: make(map[string]*pattern.Pattern)}
}

func (r *reverser) name(n string, p *pattern.Pattern) error {
	if _, exists := r.pats[n]; exists {
		return errors.Newf("wex: route name %q already registered", n)
	}
	r.pats[n] = p
	return nil
}

func (r *reverser) reverse(name string, vals ...string) (string, error) {
	p, ok := r.pats[name]
	if !ok {
		return "", errors.Newf("wex: no route named %q, known names: %v", name, lo.Keys(r.pats))
	}
	return pattern.Build(p, vals...)
}
