package sim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/booster-sim/booster-sim/sim/internal/testutil"
)

func TestIdentityPool_Draw(t *testing.T) {
	pool := &IdentityPool{Names: []string{"Ana", "Ben", "Chen"}, Initials: "XYZ"}

	// First draw picks the name, second the initial
	assert.Equal(t, "Ana X", pool.Draw(testutil.NewScriptedSource(0, 0)))
	assert.Equal(t, "Chen Z", pool.Draw(testutil.NewScriptedSource(0.99, 0.99)))
	assert.Equal(t, "Ben Y", pool.Draw(testutil.NewScriptedSource(0.5, 0.5)))
}

func TestIdentityPool_Degenerate(t *testing.T) {
	var nilPool *IdentityPool
	assert.Empty(t, nilPool.Draw(testutil.NewScriptedSource(0.5)))
	assert.Empty(t, (&IdentityPool{}).Draw(testutil.NewScriptedSource(0.5)))

	src := testutil.NewScriptedSource(0.5, 0.5)
	assert.Equal(t, "Solo", (&IdentityPool{Names: []string{"Solo"}}).Draw(src))
	assert.Equal(t, 1, src.Consumed())
}

func TestDefaultIdentityPool_SkipsO(t *testing.T) {
	pool := DefaultIdentityPool()
	assert.NotEmpty(t, pool.Names)
	assert.False(t, strings.ContainsRune(pool.Initials, 'O'))
	assert.Len(t, pool.Initials, 25)
}
