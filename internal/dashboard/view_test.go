package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestView_LatestTicketWins(t *testing.T) {
	var v View[string]

	_, ok := v.Current()
	assert.False(t, ok)

	first := v.Begin()
	second := v.Begin()

	assert.True(t, v.Commit(second, "new"))
	assert.False(t, v.Commit(first, "stale"), "superseded fetch must not overwrite")

	got, ok := v.Current()
	assert.True(t, ok)
	assert.Equal(t, "new", got)
}

func TestView_SequentialCommits(t *testing.T) {
	var v View[int]
	for i := 1; i <= 3; i++ {
		assert.True(t, v.Commit(v.Begin(), i))
	}
	got, _ := v.Current()
	assert.Equal(t, 3, got)
}
