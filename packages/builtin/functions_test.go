package builtin

import (
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Call(t *testing.T) {
	r := NewRegistry()

	t.Run("uuid", func(t *testing.T) {
		v, err := r.Call("uuid()")
		require.NoError(t, err)
		_, err = uuid.Parse(v.(string))
		assert.NoError(t, err)
	})

	t.Run("timestamp", func(t *testing.T) {
		v, err := r.Call("timestamp()")
		require.NoError(t, err)
		assert.InDelta(t, time.Now().Unix(), v.(int64), 5)
	})

	t.Run("date with layout", func(t *testing.T) {
		v, err := r.Call(`date("2006")`)
		require.NoError(t, err)
		assert.Equal(t, strconv.Itoa(time.Now().UTC().Year()), v)
	})

	t.Run("random in range", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			v, err := r.Call("random(3, 5)")
			require.NoError(t, err)
			assert.GreaterOrEqual(t, v.(int), 3)
			assert.LessOrEqual(t, v.(int), 5)
		}
	})

	t.Run("random at the int64 edges", func(t *testing.T) {
		v, err := r.Call("random(-9223372036854775808, -9223372036854775807)")
		require.NoError(t, err)
		assert.LessOrEqual(t, v.(int), math.MinInt64+1)

		v, err = r.Call("random(9223372036854775806, 9223372036854775807)")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v.(int), math.MaxInt64-1)

		v, err = r.Call("random(7, 7)")
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	})

	t.Run("randomString length", func(t *testing.T) {
		v, err := r.Call("randomString(12)")
		require.NoError(t, err)
		assert.Len(t, v.(string), 12)
	})

	t.Run("randomEmail", func(t *testing.T) {
		v, err := r.Call("randomEmail()")
		require.NoError(t, err)
		assert.Regexp(t, `^[a-z0-9]{10}@example\.com$`, v)
	})
}

func TestRegistry_CallErrors(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		expr string
		msg  string
	}{
		{"uuid", "not a function call"},
		{"nope()", "unknown function"},
		{"random(a, 5)", "not an integer"},
		{"random(9, 1)", "less than min"},
		{"randomString(-1)", "negative length"},
		{"random(0, 9223372036854775807)", "too wide"},
		{"random(-9223372036854775808, 0)", "too wide"},
		{"randomString(1000000000000)", "exceeds"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := r.Call(tt.expr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	r.Register("answer", func(_ []string) (any, error) { return 42, nil })

	v, err := r.Call("answer()")
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Contains(t, r.Names(), "answer")
}

func TestParseArgs(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, parseArgs("1, 2"))
	assert.Equal(t, []string{"a, b", "c"}, parseArgs(`"a, b", 'c'`))
	assert.Equal(t, []string{"x"}, parseArgs("x"))
}

func TestIsCall(t *testing.T) {
	assert.True(t, IsCall("uuid()"))
	assert.True(t, IsCall("random(1, 2)"))
	assert.False(t, IsCall("userId"))
	assert.False(t, IsCall("$HOME"))
}
