package goservice

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizerRunsActionsInOrder(t *testing.T) {
	first := &countingAction{ret: "first"}
	double := &doubleAmount{}
	last := &countingAction{ret: "last"}

	org := NewOrganizer("checkout", first, double).Add(last)
	ctx, err := org.Call(map[string]any{"amount": 4}, WithLogger(&TestLogger{t: t}))
	require.NoError(t, err)

	assert.True(t, ctx.Success())
	called := ctx.CalledActions()
	require.Len(t, called, 3)
	assert.Same(t, first, called[0].Action)
	assert.Same(t, double, called[1].Action)
	assert.Same(t, last, called[2].Action)

	total, _ := Fetch[int](ctx, "total")
	assert.Equal(t, 8, total)
}

func TestOrganizerStopsOnSoftFailure(t *testing.T) {
	after := &countingAction{}
	ctx, err := NewOrganizer("soft", &failingAction{}, after).Call(nil)
	require.NoError(t, err)

	assert.True(t, ctx.Failed())
	assert.Equal(t, 0, after.calls)
	assert.Len(t, ctx.CalledActions(), 1)
}

func TestOrganizerStopsOnSkip(t *testing.T) {
	after := &countingAction{}
	ctx, err := NewOrganizer("skip", skippingAction{}, after).Call(nil)
	require.NoError(t, err)

	assert.True(t, ctx.Success())
	assert.Equal(t, 0, after.calls)
}

func TestOrganizerCallBang(t *testing.T) {
	after := &countingAction{}
	ctx, err := NewOrganizer("hard", &failingAction{}, after).CallBang(nil)

	var failure *Failure
	require.True(t, errors.As(err, &failure))
	assert.Same(t, ctx, failure.Context)
	assert.Equal(t, 0, after.calls)
}

func TestOrganizerReturnsContractViolations(t *testing.T) {
	after := &countingAction{}
	_, err := NewOrganizer("violation", &doubleAmount{}, after).Call(nil)

	assert.True(t, errors.Is(err, ErrMissingKeys))
	assert.Equal(t, 0, after.calls)
}

func TestOrganizerReusesContext(t *testing.T) {
	ctx := NewContext(map[string]any{"amount": 1})
	out, err := NewOrganizer("reuse", &doubleAmount{}).Call(ctx)
	require.NoError(t, err)
	assert.Same(t, ctx, out)
}

func TestOrganizerAddByID(t *testing.T) {
	RegisterAction("organizer-test.count", func() Action { return &countingAction{ret: "registered"} })

	org := NewOrganizer("registry")
	require.NoError(t, org.AddByID("organizer-test.count"))
	assert.Error(t, org.AddByID("organizer-test.unknown"))

	ctx, err := org.Call(nil)
	require.NoError(t, err)
	require.Len(t, ctx.CalledActions(), 1)
	assert.Equal(t, "registered", ctx.CalledActions()[0].Return)
}

func TestOrganizerRejectsUnsupportedData(t *testing.T) {
	_, err := NewOrganizer("bad").Call(3.14)
	assert.True(t, errors.Is(err, ErrUnsupportedData))
}
