package device

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	devs := []*Device{
		New("host", CPU, 0, true, true, false),
		New("gpu0", GPU, 0, false, false, false),
	}

	d, err := selectFrom(devs, "")
	require.NoError(t, err)
	assert.Equal(t, "host", d.Name())

	d, err = selectFrom(devs, "GPU:0")
	require.NoError(t, err)
	assert.Equal(t, GPU, d.Kind())
	assert.Equal(t, "gpu:0", d.FilterString())

	_, err = selectFrom(devs, "gpu:1")
	assert.Error(t, err)
	_, err = selectFrom(devs, "tpu")
	assert.Error(t, err)
	_, err = selectFrom(devs, "cpu:x")
	assert.Error(t, err)
}

func TestDevicesHostFirst(t *testing.T) {
	devs := Devices()
	require.NotEmpty(t, devs)
	assert.Equal(t, CPU, devs[0].Kind())
	assert.True(t, devs[0].HasFP64())
	assert.Equal(t, VendorMathAvailable(), devs[0].HasVendorMath())
}

func TestNormalizeQueue(t *testing.T) {
	q, err := NormalizeQueue(nil, "cpu")
	require.NoError(t, err)
	assert.Same(t, DefaultQueue(q.Device()), q)

	own := NewQueue(q.Device())
	got, err := NormalizeQueue(own, "")
	require.NoError(t, err)
	assert.Same(t, own, got)

	_, err = NormalizeQueue(own, "cpu")
	assert.Error(t, err)
}

func TestSubmitRespectsDependencies(t *testing.T) {
	q := NewQueue(New("test", CPU, 0, true, true, false))

	var order []int
	gate := make(chan struct{})
	first := q.SubmitOrdered(nil, func() error {
		<-gate
		order = append(order, 1)
		return nil
	})
	second := q.SubmitOrdered(nil, func() error {
		order = append(order, 2)
		return nil
	})

	time.Sleep(10 * time.Millisecond)
	assert.False(t, second.Compute.IsComplete())
	close(gate)

	require.NoError(t, second.Wait())
	require.NoError(t, first.Wait())
	assert.Equal(t, []int{1, 2}, order)
}

func TestSubmitPropagatesFailure(t *testing.T) {
	q := NewQueue(New("test", CPU, 0, true, true, false))
	boom := errors.New("boom")

	var ran atomic.Bool
	q.SubmitOrdered(nil, func() error { return boom })
	next := q.SubmitOrdered(nil, func() error {
		ran.Store(true)
		return nil
	})

	assert.ErrorIs(t, next.Compute.Wait(), boom)
	assert.False(t, ran.Load())
	assert.ErrorIs(t, q.Wait(), boom)

	// Failures are forgotten once observed through Wait.
	ok := q.SubmitOrdered(nil, func() error { return nil })
	assert.NoError(t, ok.Wait())
}

func TestOrderManagerKeepsFailuresUntilWait(t *testing.T) {
	q := NewQueue(New("test", CPU, 0, true, true, false))
	boom := errors.New("boom")

	failed := q.SubmitOrdered(nil, func() error { return boom })
	require.ErrorIs(t, failed.Wait(), boom)

	// the failure outlives its completion and reaches unrelated work
	assert.Len(t, q.Order().SubmittedEvents(), 1)
	for range 3 {
		later := q.SubmitOrdered(nil, func() error { return nil })
		assert.ErrorIs(t, later.Wait(), boom)
	}

	// explicit dependencies bypass the order manager
	free := q.Submit(nil, func() error { return nil })
	assert.NoError(t, free.Wait())

	assert.ErrorIs(t, q.Wait(), boom)
	assert.Empty(t, q.Order().SubmittedEvents())
	assert.NoError(t, q.SubmitOrdered(nil, func() error { return nil }).Wait())
}

func TestSubmitRecoversPanics(t *testing.T) {
	q := NewQueue(New("test", CPU, 0, true, true, false))
	pair := q.Submit(nil, func() error { panic("kernel bug") })
	err := pair.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kernel bug")
}

func TestOrderManagerPrunesCompleted(t *testing.T) {
	q := NewQueue(New("test", CPU, 0, true, true, false))
	pair := q.SubmitOrdered(nil, func() error { return nil })
	require.NoError(t, pair.Wait())
	assert.Empty(t, q.Order().SubmittedEvents())
}

func TestExecutionQueue(t *testing.T) {
	dev := New("test", CPU, 0, true, true, false)
	a, b := NewQueue(dev), NewQueue(dev)
	assert.Same(t, a, ExecutionQueue(a, nil, a))
	assert.Nil(t, ExecutionQueue(a, b))
	assert.Nil(t, ExecutionQueue())
}

func TestCoerceUSMType(t *testing.T) {
	assert.Equal(t, USMDevice, CoerceUSMType(USMHost, USMDevice, USMShared))
	assert.Equal(t, USMShared, CoerceUSMType(USMHost, USMShared))
	u, err := ParseUSMType("")
	require.NoError(t, err)
	assert.Equal(t, USMDevice, u)
	_, err = ParseUSMType("pinned")
	assert.Error(t, err)
}
