package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesSentinel(t *testing.T) {
	err := Wrapf(ErrLinkResolution, "designation %q", "2020 AB")

	assert.True(t, IsLinkResolution(err))
	assert.False(t, IsUnsupportedCriterion(err))
	assert.Contains(t, err.Error(), "2020 AB")
	assert.Contains(t, err.Error(), "unknown NEO")
}

func TestSentinelHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"unsupported criterion", Wrap(ErrUnsupportedCriterion, "accessor"), IsUnsupportedCriterion, true},
		{"link resolution", Wrap(ErrLinkResolution, "approach 3"), IsLinkResolution, true},
		{"not found", NewNotFoundError("no NEO named %q", "Eros"), IsNotFoundError, true},
		{"invalid request", NewInvalidRequestError("bad extension %q", ".txt"), IsInvalidRequestError, true},
		{"nil is never a match", nil, IsNotFoundError, false},
		{"unrelated error", New("boom"), IsInvalidRequestError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}

func TestNewNotFoundErrorMessage(t *testing.T) {
	err := NewNotFoundError("no NEO with designation %q", "433")
	assert.Equal(t, "no NEO with designation \"433\": not found", err.Error())
}

func TestWithHint(t *testing.T) {
	err := WithHint(ErrLinkResolution, "regenerate cad.json from the same NEO snapshot")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "regenerate cad.json from the same NEO snapshot", hints[0])
	assert.True(t, IsLinkResolution(err))
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")
	assert.Contains(t, fmt.Sprintf("%+v", err), "errors_test.go")
}

func ExampleWrap() {
	err := Wrap(ErrUnsupportedCriterion, "filter on albedo")
	fmt.Println(err)
	// Output: filter on albedo: unsupported criterion
}
