package pg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagekit/core/storage"
)

func TestIdent(t *testing.T) {
	t.Parallel()

	valid := []string{"orders", "order_items", "a", "t1"}
	for _, name := range valid {
		got, err := ident(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, got)
	}

	invalid := []string{
		"",
		"Orders",
		"1orders",
		"orders; drop table users",
		"orders--",
		`orders"`,
		"orders.items",
	}
	for _, name := range invalid {
		_, err := ident(name)
		assert.ErrorIs(t, err, storage.ErrInvalidEntity, name)
	}
}

func TestSortedColumns(t *testing.T) {
	t.Parallel()

	t.Run("deterministic order with matching args", func(t *testing.T) {
		t.Parallel()

		cols, args, err := sortedColumns(storage.Record{
			"name":   "Widget",
			"amount": 3,
			"status": "open",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"amount", "name", "status"}, cols)
		assert.Equal(t, []any{3, "Widget", "open"}, args)
	})

	t.Run("empty fields rejected", func(t *testing.T) {
		t.Parallel()

		_, _, err := sortedColumns(storage.Record{})
		assert.ErrorIs(t, err, storage.ErrInvalidEntity)
	})

	t.Run("bad column name rejected", func(t *testing.T) {
		t.Parallel()

		_, _, err := sortedColumns(storage.Record{"name = 'x' WHERE 1=1; --": "v"})
		assert.ErrorIs(t, err, storage.ErrInvalidEntity)
	})
}

func TestTxContext(t *testing.T) {
	t.Parallel()

	t.Run("empty context has no tx", func(t *testing.T) {
		t.Parallel()

		_, ok := TxFromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("nil tx leaves context unchanged", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		assert.Equal(t, ctx, WithTx(ctx, nil))
	})
}

func TestConnectValidation(t *testing.T) {
	t.Parallel()

	_, err := Connect(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrEmptyConnectionString)
}
