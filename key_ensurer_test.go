package goservice

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ensureContract = NewContract().
	Accepts("page", Default(1)).
	Expects("a", "b", "c").
	Promises("x", "y")

type ensureAction struct {
	BaseAction
}

func (ensureAction) Contract() *Contract { return ensureContract }

func TestAssignAccepted(t *testing.T) {
	ctx := NewContext(nil)
	AssignAccepted(ctx, ensureAction{})

	page, err := Fetch[int](ctx, "page")
	require.NoError(t, err)
	assert.Equal(t, 1, page)

	ctx.Set("page", 7)
	AssignAccepted(ctx, ensureAction{})
	page, _ = Fetch[int](ctx, "page")
	assert.Equal(t, 7, page)
}

func TestEnsureExpected(t *testing.T) {
	t.Run("lists every missing key in declaration order", func(t *testing.T) {
		ctx := NewContext(map[string]any{"b": 1})
		err := EnsureExpected(ctx, ensureAction{})

		var missing *MissingExpectedKeysError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, []Key{"a", "c"}, missing.Keys)
	})

	t.Run("passes when all keys are present", func(t *testing.T) {
		ctx := NewContext(map[string]any{"a": 1, "b": nil, "c": false})
		assert.NoError(t, EnsureExpected(ctx, ensureAction{}))
	})

	t.Run("passes for actions expecting nothing", func(t *testing.T) {
		assert.NoError(t, EnsureExpected(NewContext(nil), &countingAction{}))
	})
}

func TestEnsurePromised(t *testing.T) {
	ctx := NewContext(map[string]any{"y": 1})
	err := EnsurePromised(ctx, ensureAction{})

	var missing *MissingPromisedKeysError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []Key{"x"}, missing.Keys)

	ctx.Set("x", "done")
	assert.NoError(t, EnsurePromised(ctx, ensureAction{}))
}
