package expr

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstitute(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		subst    map[string]string
		expected string
	}{
		{
			name:     "rename plain reference",
			src:      "a + b",
			subst:    map[string]string{"a": "z"},
			expected: "z + b",
		},
		{
			name:     "local to qualified",
			src:      "V * 2",
			subst:    map[string]string{"V": "membrane.V"},
			expected: "membrane.V * 2",
		},
		{
			name:     "qualified to local",
			src:      "membrane.V * 2",
			subst:    map[string]string{"membrane.V": "V"},
			expected: "V * 2",
		},
		{
			name:     "derivatives follow their state",
			src:      "dot(x) + x",
			subst:    map[string]string{"x": "y"},
			expected: "dot(y) + y",
		},
		{
			name:     "swap is a single pass",
			src:      "a - b",
			subst:    map[string]string{"a": "b", "b": "a"},
			expected: "b - a",
		},
		{
			name:     "exact names only",
			src:      "c + c.x",
			subst:    map[string]string{"c": "d"},
			expected: "d + c.x",
		},
		{
			name:     "untouched",
			src:      "1 + 2",
			subst:    map[string]string{"a": "b"},
			expected: "1 + 2",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			orig := MustParse(tc.src)
			out, err := orig.Substitute(tc.subst)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out.String())
			assert.Equal(t, Canonical(tc.src), orig.String(), "original must be unchanged")
		})
	}
}

func TestSubstitute_OffsetSource(t *testing.T) {
	src := []byte("rhs = a + dot(b)\n")
	rng := hcl.Range{
		Filename: "model.hcl",
		Start:    hcl.Pos{Line: 1, Column: 7, Byte: 6},
		End:      hcl.Pos{Line: 1, Column: 17, Byte: 16},
	}
	e, diags := FromSource(src, rng)
	require.False(t, diags.HasErrors())

	out, err := e.Substitute(map[string]string{"b": "comp.b", "a": "q"})
	require.NoError(t, err)
	assert.Equal(t, "q + dot(comp.b)", out.String())
}

func TestClone(t *testing.T) {
	orig := MustParse("a * dot(b)")
	cp := orig.Clone()

	assert.True(t, orig.Equal(cp))
	assert.NotSame(t, orig, cp)
	assert.NotSame(t, orig.Syntax(), cp.Syntax())
}
