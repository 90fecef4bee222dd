package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectValidation(t *testing.T) {
	t.Parallel()

	t.Run("empty URL", func(t *testing.T) {
		t.Parallel()

		_, err := Connect(context.Background(), Config{})
		assert.ErrorIs(t, err, ErrEmptyConnectionURL)
	})

	t.Run("malformed URL", func(t *testing.T) {
		t.Parallel()

		_, err := Connect(context.Background(), Config{ConnectionURL: "http://not-redis"})
		assert.ErrorIs(t, err, ErrFailedToParseConnString)
	})
}

func TestNewArchiveDefaults(t *testing.T) {
	t.Parallel()

	a := NewArchive(nil, Config{})
	assert.Equal(t, "pagekit:session:archive", a.key)

	a = NewArchive(nil, Config{KeyPrefix: "custom:"})
	assert.Equal(t, "custom:archive", a.key)
}
