package env

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/abdul-hamid-achik/reqsuite/packages/builtin"
)

var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Resolver expands {{...}} references. It is safe for concurrent use.
type Resolver struct {
	mu        sync.RWMutex
	variables map[string]string
	funcs     *builtin.Registry
	log       logrus.FieldLogger
	lookupEnv func(string) (string, bool)
}

func NewResolver() *Resolver {
	return &Resolver{
		variables: make(map[string]string),
		funcs:     builtin.NewRegistry(),
		log:       logrus.StandardLogger(),
		lookupEnv: os.LookupEnv,
	}
}

// SetLogger sets where unresolved-reference warnings are written.
func (r *Resolver) SetLogger(log logrus.FieldLogger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if log != nil {
		r.log = log
	}
}

func (r *Resolver) logger() logrus.FieldLogger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.log
}

func (r *Resolver) SetVariables(vars map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range vars {
		r.variables[k] = v
	}
}

// GetVariable looks name up in the suite variables, then the environment.
func (r *Resolver) GetVariable(name string) (string, bool) {
	r.mu.RLock()
	v, ok := r.variables[name]
	r.mu.RUnlock()
	if ok {
		return v, true
	}
	return r.lookupEnv(name)
}

func (r *Resolver) Resolve(input string) string {
	if !strings.Contains(input, "{{") {
		return input
	}

	return variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-2])

		if strings.HasPrefix(expr, "$") {
			name := expr[1:]
			if val, ok := r.lookupEnv(name); ok {
				return val
			}
			r.logger().WithField("variable", name).Warn("unresolved environment variable")
			return match
		}

		if builtin.IsCall(expr) {
			result, err := r.funcs.Call(expr)
			if err != nil {
				r.logger().WithError(err).WithField("call", expr).Warn("unresolved function call")
				return match
			}
			return fmt.Sprintf("%v", result)
		}

		if val, ok := r.GetVariable(expr); ok {
			return val
		}

		r.logger().WithField("variable", expr).Warn("unresolved variable")
		return match
	})
}

func (r *Resolver) ResolveAll(values map[string]string) map[string]string {
	if values == nil {
		return nil
	}
	result := make(map[string]string, len(values))
	for k, v := range values {
		result[k] = r.Resolve(v)
	}
	return result
}

// ResolveValue walks a decoded JSON-like value and resolves every string
// inside it. The input is not modified.
func (r *Resolver) ResolveValue(v any) any {
	switch val := v.(type) {
	case string:
		return r.Resolve(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = r.ResolveValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = r.ResolveValue(item)
		}
		return out
	default:
		return v
	}
}

// ResolveBody is ResolveValue for request bodies.
func (r *Resolver) ResolveBody(body map[string]any) map[string]any {
	if body == nil {
		return nil
	}
	return r.ResolveValue(body).(map[string]any)
}

func (r *Resolver) Clone() *Resolver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := NewResolver()
	clone.log = r.log
	clone.lookupEnv = r.lookupEnv
	for k, v := range r.variables {
		clone.variables[k] = v
	}
	return clone
}
