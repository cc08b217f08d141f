//go:build unit

package giftcode_test

import (
	"testing"
	"time"

	"giftcard-fulfillment/internal/domain/giftcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	now := time.Now()

	t.Run("valid unassigned code", func(t *testing.T) {
		gc, err := giftcode.New(1, "ABCD-1234", 100, nil, nil, now)
		require.NoError(t, err)
		assert.Equal(t, "ABCD-1234", gc.Code())
		assert.Equal(t, 100, gc.Denomination())
		assert.False(t, gc.IsAssigned())
	})

	t.Run("code is trimmed", func(t *testing.T) {
		gc, err := giftcode.New(1, "  ABCD-1234  ", 100, nil, nil, now)
		require.NoError(t, err)
		assert.Equal(t, "ABCD-1234", gc.Code())
	})

	t.Run("empty code rejected", func(t *testing.T) {
		_, err := giftcode.New(1, "   ", 100, nil, nil, now)
		assert.ErrorIs(t, err, giftcode.ErrEmptyCode)
	})

	t.Run("non-positive denomination rejected", func(t *testing.T) {
		_, err := giftcode.New(1, "ABCD-1234", 0, nil, nil, now)
		assert.ErrorIs(t, err, giftcode.ErrInvalidDenomination)
	})
}

func TestCorrectDenomination(t *testing.T) {
	now := time.Now()

	t.Run("unassigned code can be corrected", func(t *testing.T) {
		gc, err := giftcode.New(1, "ABCD-1234", 100, nil, nil, now)
		require.NoError(t, err)

		require.NoError(t, gc.CorrectDenomination(200))
		assert.Equal(t, 200, gc.Denomination())
	})

	t.Run("assigned code is immutable", func(t *testing.T) {
		ref := "S1"
		gc, err := giftcode.New(1, "ABCD-1234", 100, &ref, &now, now)
		require.NoError(t, err)

		err = gc.CorrectDenomination(200)
		assert.ErrorIs(t, err, giftcode.ErrAlreadyAssigned)
		assert.Equal(t, 100, gc.Denomination())
	})

	t.Run("invalid target denomination rejected", func(t *testing.T) {
		gc, err := giftcode.New(1, "ABCD-1234", 100, nil, nil, now)
		require.NoError(t, err)

		err = gc.CorrectDenomination(-50)
		assert.ErrorIs(t, err, giftcode.ErrInvalidDenomination)
	})
}
