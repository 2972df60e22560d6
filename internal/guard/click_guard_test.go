package guard_test

import (
	"sync"
	"testing"
	"time"

	"linkboard/internal/guard"

	"github.com/stretchr/testify/assert"
)

func TestClickGuard_SuppressesRepeatWithinWindow(t *testing.T) {
	g := guard.NewClickGuard(100 * time.Millisecond)

	assert.True(t, g.ShouldAccept("1.2.3.4", "default", "github"))
	assert.False(t, g.ShouldAccept("1.2.3.4", "default", "github"))

	time.Sleep(120 * time.Millisecond)

	assert.True(t, g.ShouldAccept("1.2.3.4", "default", "github"))
}

func TestClickGuard_RejectionDoesNotExtendWindow(t *testing.T) {
	g := guard.NewClickGuard(100 * time.Millisecond)

	assert.True(t, g.ShouldAccept("1.2.3.4", "default", "github"))

	// Hammering during the window must not push the last-accepted time forward
	time.Sleep(60 * time.Millisecond)
	assert.False(t, g.ShouldAccept("1.2.3.4", "default", "github"))
	time.Sleep(60 * time.Millisecond)

	assert.True(t, g.ShouldAccept("1.2.3.4", "default", "github"))
}

func TestClickGuard_KeysAreIndependent(t *testing.T) {
	g := guard.NewClickGuard(2 * time.Second)

	assert.True(t, g.ShouldAccept("1.2.3.4", "default", "github"))
	assert.True(t, g.ShouldAccept("1.2.3.4", "default", "linkedin"))
	assert.True(t, g.ShouldAccept("1.2.3.4", "other", "github"))
	assert.True(t, g.ShouldAccept("5.6.7.8", "default", "github"))

	assert.False(t, g.ShouldAccept("1.2.3.4", "default", "github"))
	assert.False(t, g.ShouldAccept("5.6.7.8", "default", "github"))
}

func TestClickGuard_ForgetReleasesSingleKey(t *testing.T) {
	g := guard.NewClickGuard(2 * time.Second)

	assert.True(t, g.ShouldAccept("1.2.3.4", "default", "github"))
	assert.True(t, g.ShouldAccept("1.2.3.4", "default", "linkedin"))

	g.Forget("1.2.3.4", "default", "github")

	assert.True(t, g.ShouldAccept("1.2.3.4", "default", "github"))
	assert.False(t, g.ShouldAccept("1.2.3.4", "default", "linkedin"))
}

func TestClickGuard_Clear(t *testing.T) {
	g := guard.NewClickGuard(2 * time.Second)

	assert.True(t, g.ShouldAccept("1.2.3.4", "default", "github"))
	assert.False(t, g.ShouldAccept("1.2.3.4", "default", "github"))

	g.Clear()

	assert.True(t, g.ShouldAccept("1.2.3.4", "default", "github"))
}

func TestClickGuard_ConcurrentAccess(t *testing.T) {
	g := guard.NewClickGuard(2 * time.Second)

	var wg sync.WaitGroup
	accepted := make([]bool, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			// Half the goroutines share one key, half use unique keys
			if n%2 == 0 {
				accepted[n] = g.ShouldAccept("1.2.3.4", "default", "github")
			} else {
				accepted[n] = g.ShouldAccept("1.2.3.4", "default", string(rune('a'+n)))
			}
		}(i)
	}
	wg.Wait()

	// Exactly one of the shared-key calls may win; every unique key must win.
	sharedWins := 0
	for i := 0; i < 64; i++ {
		if i%2 == 0 {
			if accepted[i] {
				sharedWins++
			}
		} else {
			assert.True(t, accepted[i])
		}
	}
	assert.Equal(t, 1, sharedWins)
}
