package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameLoopRunsInRequestOrder(t *testing.T) {
	loop := NewFrameLoop()
	var got []int
	for i := 1; i <= 3; i++ {
		loop.RequestFrame(func() { got = append(got, i) })
	}

	require.Equal(t, 3, loop.Pending())
	assert.Equal(t, 3, loop.Fire())
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Zero(t, loop.Pending())
}

func TestFrameLoopDefersRequestsMadeWhileFiring(t *testing.T) {
	loop := NewFrameLoop()
	runs := 0
	var tick func()
	tick = func() {
		runs++
		loop.RequestFrame(tick)
	}
	loop.RequestFrame(tick)

	assert.Equal(t, 1, loop.Fire())
	assert.Equal(t, 1, runs)
	assert.Equal(t, 1, loop.Pending())

	loop.Fire()
	assert.Equal(t, 2, runs)
}

func TestFrameLoopSkipsCancelledMidBatch(t *testing.T) {
	loop := NewFrameLoop()
	ranSecond := false
	var second FrameHandle
	loop.RequestFrame(func() { loop.CancelFrame(second) })
	second = loop.RequestFrame(func() { ranSecond = true })

	assert.Equal(t, 1, loop.Fire())
	assert.False(t, ranSecond)
	assert.Zero(t, loop.Pending())
}

func TestFrameLoopIgnoresUnknownHandles(t *testing.T) {
	loop := NewFrameLoop()
	h := loop.RequestFrame(func() {})
	assert.NotZero(t, h)

	loop.CancelFrame(0)
	loop.CancelFrame(h + 100)
	assert.Equal(t, 1, loop.Pending())

	loop.CancelFrame(h)
	loop.CancelFrame(h)
	assert.Zero(t, loop.Fire())
}
