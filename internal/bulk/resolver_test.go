package bulk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
)

func categoryResolver(seed ...domain.Category) *Resolver[domain.Category] {
	return NewResolver(func(c domain.Category) (int64, string) { return c.ID, c.Name }, seed)
}

func TestResolver_IDWinsOverName(t *testing.T) {
	r := categoryResolver(domain.Category{ID: 1, Name: "Drinks"}, domain.Category{ID: 2, Name: "Desserts"})

	got, ok := r.Resolve("2", "Drinks")
	assert.True(t, ok)
	assert.Equal(t, int64(2), got.ID)

	_, ok = r.Resolve(99, "Drinks")
	assert.False(t, ok, "a valid id that misses must not fall back to the name")
}

func TestResolver_NameIsCaseInsensitiveExact(t *testing.T) {
	r := categoryResolver(domain.Category{ID: 1, Name: "Hot Drinks"})

	got, ok := r.Resolve(nil, "  hot DRINKS ")
	assert.True(t, ok)
	assert.Equal(t, int64(1), got.ID)

	_, ok = r.Resolve(nil, "Hot")
	assert.False(t, ok)
	_, ok = r.Resolve("", "")
	assert.False(t, ok)
}

func TestResolver_DuplicateNamesLastWins(t *testing.T) {
	r := categoryResolver(domain.Category{ID: 1, Name: "Specials"}, domain.Category{ID: 5, Name: "specials"})
	got, ok := r.Resolve(nil, "Specials")
	assert.True(t, ok)
	assert.Equal(t, int64(5), got.ID)
}

func TestResolver_PutAndEvict(t *testing.T) {
	r := categoryResolver()
	r.Put(domain.Category{ID: 42, Name: "Starters"})

	got, ok := r.Resolve(nil, "starters")
	assert.True(t, ok)
	assert.Equal(t, int64(42), got.ID)

	r.Put(domain.Category{ID: 42, Name: "Appetizers"})
	_, ok = r.Resolve(nil, "Starters")
	assert.False(t, ok, "old name is dropped on rename")

	r.Evict(42)
	_, ok = r.Resolve(42, nil)
	assert.False(t, ok)
	_, ok = r.Resolve(nil, "Appetizers")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}
