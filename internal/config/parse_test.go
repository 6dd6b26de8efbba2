package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHelperFunctions(t *testing.T) {
	t.Run("parseStringFn", func(t *testing.T) {
		fn := parseStringFn(func(s string) error {
			if s == "invalid" {
				return errors.New("invalid")
			}
			return nil
		})

		v, err := fn("valid")
		assert.NoError(t, err)
		assert.Equal(t, "valid", v)

		_, err = fn(123)
		assert.Error(t, err)

		_, err = fn("invalid")
		assert.Error(t, err)
	})

	t.Run("parseBoolFn", func(t *testing.T) {
		fn := parseBoolFn()

		v, err := fn(true)
		assert.NoError(t, err)
		assert.True(t, v)

		_, err = fn("invalid")
		assert.Error(t, err)
	})

	t.Run("parseDurationFn", func(t *testing.T) {
		fn := parseDurationFn(nil)

		v, err := fn("1m30s")
		assert.NoError(t, err)
		assert.Equal(t, 90*time.Second, v)

		v, err = fn(int64(45))
		assert.NoError(t, err)
		assert.Equal(t, 45*time.Second, v)

		_, err = fn("later")
		assert.Error(t, err)

		_, err = fn(1.5)
		assert.Error(t, err)

		positive := parseDurationFn(checkPositiveDuration)
		_, err = positive("0s")
		assert.Error(t, err)
	})

	t.Run("isOk", func(t *testing.T) {
		v := "x"
		assert.True(t, isOk(&v, nil))
		assert.False(t, isOk(&v, errors.New("e")))
		assert.False(t, isOk[string](nil, nil))
	})
}
