// internal/words/words_test.go
package words

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPoolDeterministic(t *testing.T) {
	a := DefaultPool()
	b := DefaultPool()

	require.NotEmpty(t, a)
	assert.Equal(t, a, b, "pool content must be identical across calls")

	// Fresh copy each call: mutating one must not affect the next.
	a[0] = "mutated"
	c := DefaultPool()
	assert.NotEqual(t, a[0], c[0])
}

func TestDefaultPoolSize(t *testing.T) {
	total := 0
	for _, n := range defaultPoolSizes {
		total += n
	}
	assert.Len(t, DefaultPool(), total)
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, "animales", CategoryOf("león"))
	assert.Equal(t, "comidas", CategoryOf("pizza"))
	assert.Equal(t, CategoryCustom, CategoryOf("no-such-word"))

	// Duplicated words resolve to the first category in the fixed order.
	assert.Equal(t, "comidas", CategoryOf("café"))
	assert.Equal(t, "lugares", CategoryOf("estadio"))
}

func TestCategoryOfCoversEveryWord(t *testing.T) {
	for name, list := range Categories() {
		for _, w := range list {
			assert.NotEqual(t, CategoryCustom, CategoryOf(w), "word %q in %q must resolve", w, name)
		}
	}
}

func TestFromCategories(t *testing.T) {
	pool := FromCategories("animales", "musica")
	require.Len(t, pool, 100)
	assert.Equal(t, "león", pool[0])
	assert.Contains(t, pool, "guitarra")

	assert.Empty(t, FromCategories("desconocida"))
	assert.Empty(t, FromCategories())
}
