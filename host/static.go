// Package host provides expression evaluation context which describes a
// document from configuration rather than a live page.
package host

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"cssexpr/config"
	"cssexpr/css"
	"cssexpr/expr"
)

var (
	ErrNoElement   = errors.New("element not found")
	ErrNoMethod    = errors.New("unsupported selection method")
	ErrURLRejected = errors.New("url is not allowed")
)

var _ expr.Context = (*Static)(nil)

// MethodClosest selects nearest ancestor matching selector.
const MethodClosest = "closest"

// Static is expr.Context backed by EnvironmentConfig. Variables are decoded
// lazily on first use.
type Static struct {
	log  *zap.Logger
	env  *config.EnvironmentConfig
	base *url.URL

	vars    map[string]string
	decoded map[string]expr.Node
}

func NewStatic(env *config.EnvironmentConfig, log *zap.Logger) (*Static, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Static{
		log:     log.Named("host"),
		env:     env,
		vars:    make(map[string]string, len(env.Vars)),
		decoded: make(map[string]expr.Node),
	}
	if env.BaseURL != "" {
		base, err := url.Parse(env.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("bad base url %q: %w", env.BaseURL, err)
		}
		s.base = base
	}
	for name, value := range env.Vars {
		s.vars[name] = value
	}
	return s, nil
}

// AddVars makes custom properties available to var(). Configured variables
// take precedence and are never replaced.
func (s *Static) AddVars(vars map[string]string) {
	for name, value := range vars {
		if _, ok := s.env.Vars[name]; ok {
			s.log.Debug("Variable is configured, ignoring stylesheet value", zap.String("name", name))
			continue
		}
		s.vars[name] = value
		delete(s.decoded, name)
	}
}

// VarNames returns names of all known variables.
func (s *Static) VarNames() []string {
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	return names
}

func (s *Static) Var(name string) (expr.Node, bool) {
	if n, ok := s.decoded[name]; ok {
		return n, true
	}
	value, ok := s.vars[name]
	if !ok {
		return nil, false
	}
	n := css.ParseLiteral(value)
	s.decoded[name] = n
	return n, true
}

// ResolveURL resolves reference against base url. Only https: and data: are
// allowed as a result.
func (s *Static) ResolveURL(ref string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("bad url: %w", err)
	}
	if s.base != nil {
		u = s.base.ResolveReference(u)
	}
	switch strings.ToLower(u.Scheme) {
	case "https", "data":
		return u.String(), nil
	}
	s.log.Debug("Rejected url", zap.String("url", u.String()))
	return "", fmt.Errorf("%w: %q", ErrURLRejected, u.String())
}

func (s *Static) CurrentIndex() int {
	return s.env.Index
}

func (s *Static) TargetLength() int {
	return s.env.Length
}

func (s *Static) CurrentFontSize() float64 {
	return s.env.FontSize
}

func (s *Static) RootFontSize() float64 {
	return s.env.RootFontSize
}

func (s *Static) ViewportSize() expr.Size {
	return expr.Size{Width: s.env.Viewport.Width, Height: s.env.Viewport.Height}
}

func (s *Static) CurrentElementRect() expr.Rect {
	return toRect(s.env.Element)
}

// ElementRect looks selector up among configured elements. Empty method
// searches whole document, MethodClosest searches ancestors only.
func (s *Static) ElementRect(selector, method string) (expr.Rect, error) {
	var closest bool
	switch strings.ToLower(method) {
	case "":
	case MethodClosest:
		closest = true
	default:
		return expr.Rect{}, fmt.Errorf("%w: %q", ErrNoMethod, method)
	}
	selector = strings.TrimSpace(selector)
	for _, e := range s.env.Elements {
		if e.Closest == closest && e.Selector == selector {
			return toRect(e.Rect), nil
		}
	}
	return expr.Rect{}, fmt.Errorf("%w: %q", ErrNoElement, selector)
}

func toRect(r config.RectConfig) expr.Rect {
	return expr.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
