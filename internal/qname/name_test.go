// internal/qname/name_test.go
package qname

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName_String(t *testing.T) {
	assert.Equal(t, "a.b.c", New("a", "b", "c").String())
	assert.Equal(t, "", Name{}.String())
	assert.Equal(t, "a_b_c", New("a", "b", "c").Flat("_"))
}

func TestName_Navigation(t *testing.T) {
	n := MustParse("ina.m.alpha")

	assert.Equal(t, 3, n.Len())
	assert.True(t, n.IsQualified())
	assert.Equal(t, "ina", n.First())
	assert.Equal(t, "alpha", n.Last())
	assert.Equal(t, "ina.m", n.Parent().String())
	assert.Equal(t, "ina.m.alpha.x", n.Child("x").String())

	// Child must not alias the receiver's backing array.
	p := n.Parent()
	_ = p.Child("beta")
	assert.Equal(t, "ina.m.alpha", n.String())

	assert.False(t, New("x").IsQualified())
	assert.Equal(t, Name{}, New("x").Parent())
	assert.Equal(t, "", Name{}.Last())
}

func TestName_RoundTrip(t *testing.T) {
	for _, raw := range []string{"a", "membrane.V", "ina.m.alpha"} {
		t.Run(raw, func(t *testing.T) {
			n, err := Parse(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, n.String())

			again, err := Parse(n.String())
			require.NoError(t, err)
			assert.True(t, n.Equal(again))
		})
	}
	assert.Equal(t, "a.b", Join("a", "b"))
}
