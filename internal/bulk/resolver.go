package bulk

import "strings"

// Resolver is the batch-scoped lookup that turns an id cell or a name cell into
// a known entity. It is seeded from the store's current list and updated as
// rows commit, so later rows can reference entities created earlier in the
// same batch.
type Resolver[T any] struct {
	byID   map[int64]T
	byName map[string]int64
	key    func(T) (int64, string)
}

// NewResolver indexes seed. key extracts an entity's id and name. When names
// repeat, the last one indexed wins.
func NewResolver[T any](key func(T) (int64, string), seed []T) *Resolver[T] {
	r := &Resolver[T]{
		byID:   make(map[int64]T, len(seed)),
		byName: make(map[string]int64, len(seed)),
		key:    key,
	}
	for _, v := range seed {
		r.Put(v)
	}
	return r
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Resolve looks an entity up by id when idCell holds a valid id, otherwise by
// case-insensitive exact name. Names of evicted entities do not resolve.
func (r *Resolver[T]) Resolve(idCell, nameCell any) (T, bool) {
	if id, ok := ParseID(idCell); ok {
		return r.Lookup(id)
	}
	if name := normalizeName(Text(nameCell)); name != "" {
		if id, ok := r.byName[name]; ok {
			return r.Lookup(id)
		}
	}
	var zero T
	return zero, false
}

// Lookup returns the entity with id.
func (r *Resolver[T]) Lookup(id int64) (T, bool) {
	v, ok := r.byID[id]
	return v, ok
}

// Put records v as the latest known state of its id. A rename drops the old
// name entry when it still pointed at this id.
func (r *Resolver[T]) Put(v T) {
	id, name := r.key(v)
	if prev, ok := r.byID[id]; ok {
		_, prevName := r.key(prev)
		if old := normalizeName(prevName); old != "" && r.byName[old] == id {
			delete(r.byName, old)
		}
	}
	r.byID[id] = v
	if n := normalizeName(name); n != "" {
		r.byName[n] = id
	}
}

// Evict forgets id.
func (r *Resolver[T]) Evict(id int64) {
	delete(r.byID, id)
}

// Len is the number of live entities.
func (r *Resolver[T]) Len() int { return len(r.byID) }

// Each calls fn for every live entity in no particular order.
func (r *Resolver[T]) Each(fn func(T)) {
	for _, v := range r.byID {
		fn(v)
	}
}
