package triState

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriState(t *testing.T) {
	t.Run("should negate three-valued", func(t *testing.T) {
		assert.Equal(t, False, Not(True))
		assert.Equal(t, True, Not(False))
		assert.Equal(t, Unknown, Not(Unknown))
	})

	t.Run("should serialize unknown as the sentinel", func(t *testing.T) {
		assert.Equal(t, "true", TriStateToString(True))
		assert.Equal(t, "false", TriStateToString(False))
		assert.Equal(t, UnknownSentinel, TriStateToString(Unknown))
	})

	t.Run("should lift booleans", func(t *testing.T) {
		assert.Equal(t, True, FromBool(true))
		assert.Equal(t, False, FromBool(false))
	})
}
