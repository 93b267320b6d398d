package authz

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/Skotchmaster/rbac_api/internal/tokens"
)

var ErrForbidden = errors.New("insufficient role")

const (
	ReasonMissingToken = "missing token"
	ReasonInvalidToken = "invalid token"
)

const (
	DecisionAllow        = "allow"
	DecisionUnauthorized = "unauthorized"
	DecisionForbidden    = "forbidden"
)

type Verifier interface {
	Verify(token string) (*tokens.TokenClaims, error)
}

// DecisionRecorder counts gate outcomes.
type DecisionRecorder interface {
	ObserveDecision(decision string)
}

// Rejection carries the HTTP status a denied request maps to. It unwraps to
// tokens.ErrTokenInvalid (401) or ErrForbidden (403).
type Rejection struct {
	Status int
	Reason string
	Err    error
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%d %s: %v", r.Status, r.Reason, r.Err)
}

func (r *Rejection) Unwrap() error { return r.Err }

type Gate struct {
	verifier Verifier
	roles    []string
	recorder DecisionRecorder
}

type Option func(*Gate)

func WithRecorder(r DecisionRecorder) Option {
	return func(g *Gate) { g.recorder = r }
}

// NewGate fails with tokens.ErrConfig when no role is allowed, so a route can
// never be mounted behind a gate that rejects everyone.
func NewGate(v Verifier, roles []string, opts ...Option) (*Gate, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: gate needs a verifier", tokens.ErrConfig)
	}
	if len(roles) == 0 {
		return nil, fmt.Errorf("%w: gate needs at least one role", tokens.ErrConfig)
	}
	g := &Gate{verifier: v, roles: slices.Clone(roles)}
	for _, o := range opts {
		o(g)
	}
	return g, nil
}

func (g *Gate) Roles() []string { return slices.Clone(g.roles) }

// Authorize verifies token and checks its role claim by exact match.
func (g *Gate) Authorize(token string) (*tokens.TokenClaims, error) {
	if token == "" {
		g.observe(DecisionUnauthorized)
		return nil, &Rejection{Status: http.StatusUnauthorized, Reason: ReasonMissingToken, Err: tokens.ErrTokenInvalid}
	}

	claims, err := g.verifier.Verify(token)
	if err != nil {
		g.observe(DecisionUnauthorized)
		if !errors.Is(err, tokens.ErrTokenInvalid) {
			err = fmt.Errorf("%w: %w", tokens.ErrTokenInvalid, err)
		}
		return nil, &Rejection{Status: http.StatusUnauthorized, Reason: ReasonInvalidToken, Err: err}
	}

	if !slices.Contains(g.roles, claims.Role) {
		g.observe(DecisionForbidden)
		return nil, &Rejection{
			Status: http.StatusForbidden,
			Reason: fmt.Sprintf("role %q not allowed", claims.Role),
			Err:    ErrForbidden,
		}
	}

	g.observe(DecisionAllow)
	return claims, nil
}

func (g *Gate) observe(decision string) {
	if g.recorder != nil {
		g.recorder.ObserveDecision(decision)
	}
}
