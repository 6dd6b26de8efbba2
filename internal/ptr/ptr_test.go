package ptr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClone(t *testing.T) {
	assert.Nil(t, Clone[int](nil))

	orig := FromValue(10 * time.Second)
	c := Clone(orig)
	*c = time.Minute

	assert.Equal(t, 10*time.Second, *orig)
}

func TestCloneOr(t *testing.T) {
	tcs := []struct {
		name     string
		x        *string
		fallback *string
		expected *string
	}{
		{"x set", FromValue("en1"), FromValue("en0"), FromValue("en1")},
		{"x nil", nil, FromValue("en0"), FromValue("en0")},
		{"both nil", nil, nil, nil},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got := CloneOr(tc.x, tc.fallback)
			assert.Equal(t, tc.expected, got)
			if got != nil {
				assert.NotSame(t, tc.x, got)
				assert.NotSame(t, tc.fallback, got)
			}
		})
	}
}

func TestCloneSliceOr(t *testing.T) {
	fallback := []string{"https://a.example/"}

	got := CloneSliceOr(nil, fallback)
	assert.Equal(t, fallback, got)
	got[0] = "changed"
	assert.Equal(t, "https://a.example/", fallback[0])

	assert.Equal(t, []string{}, CloneSliceOr([]string{}, fallback))
	assert.Nil(t, CloneSliceOr[string](nil, nil))
}

func TestFromPtrOr(t *testing.T) {
	assert.Equal(t, 3, FromPtrOr(nil, 3))
	assert.Equal(t, 7, FromPtrOr(FromValue(7), 3))
}
