// Package pattern implements the route pattern language shared by the
// router and the URL reverser: segments separated by "/", with a leading
// ":" marking a named dynamic segment.
package pattern

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

var nameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Segment is one element of a compiled pattern.
type Segment struct {
	Dynamic bool
	Name    string // set when Dynamic
	Literal string // set when !Dynamic
}

// Pattern is an ordered sequence of segments compiled from a pattern string.
type Pattern struct {
	Raw      string
	Segments []Segment
}

// Parse splits s on "/" and classifies each non-empty segment as Static or
// Dynamic. The empty path and "/" both normalize to the empty segment list.
// Dynamic segment names must be unique within a pattern and must not repeat
// between the sub-patterns later joined at mount time.
func Parse(s string) (*Pattern, error) {
	parts := splitPath(s)
	segs := make([]Segment, 0, len(parts))
	seen := map[string]bool{}

	for _, p := range parts {
		if strings.HasPrefix(p, ":") {
			name := p[1:]
			if name == "" || !nameRE.MatchString(name) {
				return nil, errors.Newf("invalid dynamic segment name in %q", s)
			}
			if seen[name] {
				return nil, errors.Newf("duplicate dynamic segment %q in pattern %q", name, s)
			}
			seen[name] = true
			segs = append(segs, Segment{Dynamic: true, Name: name})
			continue
		}
		segs = append(segs, Segment{Literal: p})
	}

	return &Pattern{Raw: s, Segments: segs}, nil
}

// splitPath splits a path on "/", discarding empty leading/trailing
// components produced by a single pair of wrapping slashes, so that "/a/b/"
// and "/a/b" and "a/b" all yield ["a", "b"].
func splitPath(s string) []string {
	s = strings.TrimPrefix(s, "/")
	s = strings.TrimSuffix(s, "/")
	if s == "" {
		return nil
	}
	return strings.Split(s, "/")
}

// ParamNames returns the dynamic segment names in declaration order.
func (p *Pattern) ParamNames() []string {
	names := make([]string, 0, len(p.Segments))
	for _, s := range p.Segments {
		if s.Dynamic {
			names = append(names, s.Name)
		}
	}
	return names
}

// Match attempts to match path (with any query fragment already stripped)
// against p, percent-decoding dynamic segment values. It returns the bound
// parameters and whether the match succeeded.
func Match(p *Pattern, path string) (map[string]string, bool, error) {
	reqSegs := splitPath(path)
	if len(reqSegs) != len(p.Segments) {
		return nil, false, nil
	}

	params := make(map[string]string, len(p.Segments))

	for i, seg := range p.Segments {
		raw := reqSegs[i]

		decoded, err := url.PathUnescape(raw)
		if err != nil {
			return nil, false, errors.Wrapf(err, "invalid percent-encoding in segment %q", raw)
		}

		if seg.Dynamic {
			if decoded == "" {
				return nil, false, nil
			}
			params[seg.Name] = decoded
			continue
		}

		if decoded != seg.Literal {
			return nil, false, nil
		}
	}

	return params, true, nil
}

// Join concatenates pattern strings with exactly one "/" between
// components, collapsing repeated slashes and dropping trailing slashes.
func Join(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if seg := strings.Trim(p, "/"); seg != "" {
			cleaned = append(cleaned, seg)
		}
	}
	if len(cleaned) == 0 {
		return "/"
	}
	return "/" + strings.Join(cleaned, "/")
}

// Build substitutes vals, in order, for the dynamic segments of p and
// returns the resulting concrete path.
func Build(p *Pattern, vals ...string) (string, error) {
	names := p.ParamNames()
	if len(vals) < len(names) {
		return "", errors.Newf("not enough values to reverse pattern %q: need %d, got %d", p.Raw, len(names), len(vals))
	}

	var b strings.Builder
	vi := 0

	for _, seg := range p.Segments {
		b.WriteByte('/')
		if seg.Dynamic {
			b.WriteString(url.PathEscape(vals[vi]))
			vi++
			continue
		}
		b.WriteString(seg.Literal)
	}

	if b.Len() == 0 {
		return "/", nil
	}

	return b.String(), nil
}
