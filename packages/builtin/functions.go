package builtin

import (
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	alphanumeric          = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxRandomStringLength = 1 << 16
)

type Func func(args []string) (any, error)

type Registry struct {
	funcs map[string]Func
}

func NewRegistry() *Registry {
	r := &Registry{
		funcs: make(map[string]Func),
	}
	r.registerDefaults()
	return r
}

func (r *Registry) registerDefaults() {
	r.funcs["now"] = funcNow
	r.funcs["date"] = funcDate
	r.funcs["timestamp"] = funcTimestamp
	r.funcs["timestampMs"] = funcTimestampMs
	r.funcs["uuid"] = funcUUID
	r.funcs["random"] = funcRandom
	r.funcs["randomString"] = funcRandomString
	r.funcs["randomEmail"] = funcRandomEmail
}

func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Names returns the registered function names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var funcCallPattern = regexp.MustCompile(`^(\w+)\((.*)\)$`)

// IsCall reports whether expr has the shape of a function call.
func IsCall(expr string) bool {
	return funcCallPattern.MatchString(expr)
}

// Call evaluates a call expression such as "random(1, 10)".
func (r *Registry) Call(expr string) (any, error) {
	matches := funcCallPattern.FindStringSubmatch(expr)
	if matches == nil {
		return nil, fmt.Errorf("not a function call: %q", expr)
	}

	name := matches[1]
	fn, ok := r.funcs[name]
	if !ok {
		return nil, fmt.Errorf("unknown function %q", name)
	}

	var args []string
	if argsStr := strings.TrimSpace(matches[2]); argsStr != "" {
		args = parseArgs(argsStr)
	}

	v, err := fn(args)
	if err != nil {
		return nil, fmt.Errorf("%s(): %w", name, err)
	}
	return v, nil
}

func parseArgs(s string) []string {
	var args []string
	var current strings.Builder
	inQuote := false
	quoteChar := byte(0)

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case !inQuote && (ch == '"' || ch == '\''):
			inQuote = true
			quoteChar = ch
		case inQuote && ch == quoteChar:
			inQuote = false
			quoteChar = 0
		case !inQuote && ch == ',':
			args = append(args, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}

	args = append(args, strings.TrimSpace(current.String()))
	return args
}

func intArg(args []string, i, def int) (int, error) {
	if len(args) <= i || args[i] == "" {
		return def, nil
	}
	v, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("argument %d: %q is not an integer", i+1, args[i])
	}
	return v, nil
}

func funcNow(_ []string) (any, error) {
	return time.Now().UTC().Format(time.RFC3339), nil
}

func funcDate(args []string) (any, error) {
	layout := "2006-01-02"
	if len(args) >= 1 && args[0] != "" {
		layout = args[0]
	}
	return time.Now().UTC().Format(layout), nil
}

func funcTimestamp(_ []string) (any, error) {
	return time.Now().Unix(), nil
}

func funcTimestampMs(_ []string) (any, error) {
	return time.Now().UnixMilli(), nil
}

func funcUUID(_ []string) (any, error) {
	return uuid.NewString(), nil
}

func funcRandom(args []string) (any, error) {
	min, err := intArg(args, 0, 0)
	if err != nil {
		return nil, err
	}
	max, err := intArg(args, 1, 100)
	if err != nil {
		return nil, err
	}
	if max < min {
		return nil, fmt.Errorf("max %d is less than min %d", max, min)
	}
	// The span is computed unsigned so that max-min cannot overflow.
	span := uint64(max) - uint64(min)
	if span >= math.MaxInt64 {
		return nil, fmt.Errorf("range %d..%d is too wide", min, max)
	}
	return min + int(rand.Int63n(int64(span)+1)), nil
}

func funcRandomString(args []string) (any, error) {
	length, err := intArg(args, 0, 16)
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, fmt.Errorf("negative length %d", length)
	}
	if length > maxRandomStringLength {
		return nil, fmt.Errorf("length %d exceeds %d", length, maxRandomStringLength)
	}
	return randomString(length, alphanumeric), nil
}

func funcRandomEmail(_ []string) (any, error) {
	return fmt.Sprintf("%s@example.com", strings.ToLower(randomString(10, alphanumeric))), nil
}

func randomString(length int, charset string) string {
	result := make([]byte, length)
	for i := range result {
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
