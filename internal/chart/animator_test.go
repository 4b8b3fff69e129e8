package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartIsIdempotent(t *testing.T) {
	loop := NewFrameLoop()
	var log []string
	parent := newProbe(loop, "parent", &log)
	child := newProbe(loop, "child", &log)
	parent.Link(child)

	parent.Start()
	require.True(t, parent.IsActive())
	require.True(t, child.IsActive())
	pending, drawn, resets := loop.Pending(), len(log), parent.resets

	parent.Start()
	assert.True(t, parent.IsActive())
	assert.True(t, child.IsActive())
	assert.Equal(t, pending, loop.Pending())
	assert.Equal(t, drawn, len(log))
	assert.Equal(t, resets, parent.resets)
}

func TestStopIsIdempotent(t *testing.T) {
	loop := NewFrameLoop()
	var log []string
	c := newProbe(loop, "c", &log)

	c.Stop()
	assert.False(t, c.IsActive())
	assert.Zero(t, loop.Pending())

	c.Start()
	c.Stop()
	c.Stop()
	assert.False(t, c.IsActive())
	assert.Zero(t, loop.Pending())
}

func TestStartDrawsImmediatelyAndKeepsTicking(t *testing.T) {
	loop := NewFrameLoop()
	var log []string
	c := newProbe(loop, "c", &log)

	c.Start()
	assert.Equal(t, []string{"c"}, log)
	assert.Equal(t, 1, c.resets)
	assert.Equal(t, 1, loop.Pending())

	loop.Fire()
	loop.Fire()
	assert.Len(t, log, 3)
	assert.Equal(t, 1, loop.Pending())

	c.Stop()
	assert.Zero(t, loop.Fire())
	assert.Len(t, log, 3)
}

func TestTickAfterStopDoesNotReschedule(t *testing.T) {
	loop := NewFrameLoop()
	var log []string
	c := newProbe(loop, "c", &log)
	c.Start()

	// A tick that fires while inactive draws once more and does not
	// request another frame.
	loop.RequestFrame(func() {})
	c.active = false
	loop.Fire()

	assert.Len(t, log, 2)
	assert.Zero(t, loop.Pending())
}

func TestLifecycleCascades(t *testing.T) {
	loop := NewFrameLoop()
	var log []string
	parent := newProbe(loop, "parent", &log)
	child := newProbe(loop, "child", &log)
	parent.Link(child)
	require.False(t, child.IsActive())

	parent.Start()
	assert.True(t, child.IsActive())
	assert.Equal(t, []string{"child", "parent"}, log)

	parent.Stop()
	assert.False(t, child.IsActive())
	assert.Zero(t, loop.Pending())
}

func TestLinkWhileActiveStartsChildAndDrawsItFirst(t *testing.T) {
	loop := NewFrameLoop()
	var log []string
	parent := newProbe(loop, "parent", &log)
	parent.Start()

	child := newProbe(loop, "child", &log)
	parent.Link(child)
	assert.True(t, child.IsActive())
	assert.Equal(t, 2, loop.Pending())

	log = nil
	loop.Fire()
	assert.Equal(t, []string{"child", "parent"}, log)
}

func TestLinkWhileInactiveStopsChild(t *testing.T) {
	loop := NewFrameLoop()
	var log []string
	parent := newProbe(loop, "parent", &log)
	child := newProbe(loop, "child", &log)
	child.Start()

	parent.Link(child)
	assert.False(t, child.IsActive())
	assert.Zero(t, loop.Pending())
}

func TestLinkPushesLinkedOptions(t *testing.T) {
	loop := NewFrameLoop()
	var log []string
	parent := newProbe(loop, "parent", &log)
	parent.SetOptions(probePatch{ScaleX: Opt(4.0), DrawLabels: Opt(false)})

	child := newProbe(loop, "child", &log)
	parent.Link(child)

	assert.Equal(t, 4.0, child.Options().ScaleX)
	assert.True(t, child.Options().DrawLabels)
}

func TestSetOptionsForwardsOnlyLinkedKeys(t *testing.T) {
	loop := NewFrameLoop()
	var log []string
	parent := newProbe(loop, "parent", &log)
	child := newProbe(loop, "child", &log)
	parent.Link(child)

	parent.SetOptions(probePatch{ScaleX: Opt(2.0), DrawLabels: Opt(false)})

	assert.Equal(t, probeOptions{ScaleX: 2, DrawLabels: false}, parent.Options())
	assert.Equal(t, probeOptions{ScaleX: 2, DrawLabels: true}, child.Options())
}

func TestSetOptionsKeepsUndefinedFields(t *testing.T) {
	loop := NewFrameLoop()
	var log []string
	c := newProbe(loop, "c", &log)
	c.SetOptions(probePatch{DrawLabels: Opt(false)})
	c.SetOptions(probePatch{})

	assert.Equal(t, probeOptions{ScaleX: 1, DrawLabels: false}, c.Options())
	assert.Equal(t, 2, c.resets)
	assert.False(t, c.IsActive())
}

func TestUpdateOptionsSeesCurrentValues(t *testing.T) {
	loop := NewFrameLoop()
	var log []string
	parent := newProbe(loop, "parent", &log)
	child := newProbe(loop, "child", &log)
	parent.Link(child)

	halve := func(o probeOptions) probePatch { return probePatch{ScaleX: Opt(o.ScaleX / 2)} }
	parent.UpdateOptions(halve)
	parent.UpdateOptions(halve)

	assert.Equal(t, 0.25, parent.Options().ScaleX)
	assert.Equal(t, 0.25, child.Options().ScaleX)
}

func TestResetCascadesWithoutChangingActivity(t *testing.T) {
	loop := NewFrameLoop()
	var log []string
	parent := newProbe(loop, "parent", &log)
	child := newProbe(loop, "child", &log)
	parent.Link(child)
	linked := child.resets

	parent.Reset()
	assert.Equal(t, 1, parent.resets)
	assert.Equal(t, linked+1, child.resets)
	assert.False(t, parent.IsActive())
	assert.False(t, child.IsActive())
	assert.Zero(t, loop.Pending())
}

func TestUnlinkRemovesOneAndStops(t *testing.T) {
	loop := NewFrameLoop()
	var log []string
	parent := newProbe(loop, "parent", &log)
	a := newProbe(loop, "a", &log)
	b := newProbe(loop, "b", &log)
	parent.Link(a)
	parent.Link(b)
	parent.Start()

	parent.Unlink(a)
	assert.False(t, a.IsActive())
	assert.True(t, b.IsActive())
	require.Len(t, parent.Linked(), 1)
	assert.Same(t, b, parent.Linked()[0].(*probeChart))

	log = nil
	loop.Fire()
	assert.Equal(t, []string{"b", "parent"}, log)

	parent.SetOptions(probePatch{ScaleX: Opt(3.0)})
	assert.Equal(t, 1.0, a.Options().ScaleX)
}

func TestUnlinkUnknownChartStillStops(t *testing.T) {
	loop := NewFrameLoop()
	var log []string
	parent := newProbe(loop, "parent", &log)
	stray := newProbe(loop, "stray", &log)
	stray.Start()

	parent.Unlink(stray)
	assert.False(t, stray.IsActive())
	assert.Empty(t, parent.Linked())
}

func TestUnlinkRemovesSingleInstance(t *testing.T) {
	loop := NewFrameLoop()
	var log []string
	parent := newProbe(loop, "parent", &log)
	c := newProbe(loop, "c", &log)
	parent.Link(c)
	parent.Link(c)

	parent.Unlink(c)
	assert.Len(t, parent.Linked(), 1)
}
