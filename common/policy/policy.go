// Package policy decides which principals may perform roster actions. Rules are
// CEL expressions over a `principal` map with `id` and `role` keys.
package policy

import (
	"fmt"
	"sync"

	"github.com/fridaygt/fridaygt/common/ordering"
	"github.com/google/cel-go/cel"
	"github.com/google/uuid"
)

// Roles
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Principal is the authenticated caller, passed explicitly to every service call
type Principal struct {
	ID   uuid.UUID
	Role string
}

// IsAdmin reports whether p has the admin role
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Action names a guarded operation
type Action string

const (
	ReorderMembers Action = "reorder_members"
	ReorderRaces   Action = "reorder_races"
	Administer     Action = "administer"
)

// DefaultAdminRule guards every admin-only mutation
const DefaultAdminRule = "principal.role == 'admin'"

// Engine evaluates compiled rules. Programs are compiled once per expression
// and cached.
type Engine struct {
	env   *cel.Env
	rules map[Action]string

	mu    sync.RWMutex
	cache map[string]cel.Program
}

// NewEngine compiles every rule up front so bad expressions fail at startup
func NewEngine(rules map[Action]string) (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Variable("principal", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}

	e := &Engine{
		env:   env,
		rules: make(map[Action]string, len(rules)),
		cache: make(map[string]cel.Program),
	}
	for action, expr := range rules {
		if _, err := e.program(expr); err != nil {
			return nil, fmt.Errorf("rule %s: %w", action, err)
		}
		e.rules[action] = expr
	}
	if _, ok := e.rules[Administer]; !ok {
		if _, err := e.program(DefaultAdminRule); err != nil {
			return nil, err
		}
		e.rules[Administer] = DefaultAdminRule
	}
	return e, nil
}

// Allowed evaluates the rule for action against p. Unknown actions are denied.
func (e *Engine) Allowed(action Action, p Principal) (bool, error) {
	expr, ok := e.rules[action]
	if !ok {
		return false, nil
	}

	prg, err := e.program(expr)
	if err != nil {
		return false, err
	}

	out, _, err := prg.Eval(map[string]any{
		"principal": map[string]any{
			"id":   p.ID.String(),
			"role": p.Role,
		},
	})
	if err != nil {
		return false, fmt.Errorf("CEL evaluation error: %w", err)
	}

	allowed, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("CEL expression did not return boolean, got %T", out.Value())
	}
	return allowed, nil
}

// Authorize returns an AuthorizationDenied error unless p may perform action
func (e *Engine) Authorize(action Action, p Principal) error {
	allowed, err := e.Allowed(action, p)
	if err != nil {
		return ordering.Internal(fmt.Errorf("evaluate %s: %w", action, err))
	}
	if !allowed {
		return ordering.Forbidden(ordering.ReasonForbidden, fmt.Sprintf("role %q may not %s", p.Role, action))
	}
	return nil
}

// CacheSize returns the number of compiled programs
func (e *Engine) CacheSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.cache)
}

func (e *Engine) program(expr string) (cel.Program, error) {
	e.mu.RLock()
	prg, ok := e.cache[expr]
	e.mu.RUnlock()
	if ok {
		return prg, nil
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL compilation error: %w", issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("CEL expression must return bool, got %s", out)
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}

	e.mu.Lock()
	e.cache[expr] = prg
	e.mu.Unlock()
	return prg, nil
}
