package store

// defaults is an ordered collection in which at most one item carries the default flag.
// Every method that raises a flag clears the others in the same call.
type defaults[T any] struct {
	items []T
	id    func(*T) string
	flag  func(*T) *bool
}

func newDefaults[T any](id func(*T) string, flag func(*T) *bool) *defaults[T] {
	return &defaults[T]{id: id, flag: flag}
}

func (c *defaults[T]) index(id string) int {
	for i := range c.items {
		if c.id(&c.items[i]) == id {
			return i
		}
	}
	return -1
}

func (c *defaults[T]) add(item T, p Policy) bool {
	if c.index(c.id(&item)) >= 0 {
		return false
	}
	if len(c.items) == 0 && p.DefaultFirstEntry {
		*c.flag(&item) = true
	}
	if *c.flag(&item) {
		c.clearFlags()
	}
	c.items = append(c.items, item)
	return true
}

// update applies merge to the item, keeping its flag, then makes it default if asked.
func (c *defaults[T]) update(id string, merge func(T) T, makeDefault bool) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	flag := *c.flag(&c.items[i])
	updated := merge(c.items[i])
	*c.flag(&updated) = flag
	c.items[i] = updated
	if makeDefault {
		c.setDefaultAt(i)
	}
	return true
}

func (c *defaults[T]) setDefault(id string) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.setDefaultAt(i)
	return true
}

func (c *defaults[T]) setDefaultAt(i int) {
	for j := range c.items {
		*c.flag(&c.items[j]) = j == i
	}
}

func (c *defaults[T]) remove(id string, p Policy) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	wasDefault := *c.flag(&c.items[i])
	c.items = append(c.items[:i:i], c.items[i+1:]...)
	if wasDefault && p.PromoteOnDefaultDelete && len(c.items) > 0 {
		c.setDefaultAt(0)
	}
	return true
}

func (c *defaults[T]) clearFlags() {
	for j := range c.items {
		*c.flag(&c.items[j]) = false
	}
}

func (c *defaults[T]) get(id string) (T, bool) {
	var zero T
	i := c.index(id)
	if i < 0 {
		return zero, false
	}
	return c.items[i], true
}

func (c *defaults[T]) defaultItem() (T, bool) {
	var zero T
	for i := range c.items {
		if *c.flag(&c.items[i]) {
			return c.items[i], true
		}
	}
	return zero, false
}

func (c *defaults[T]) list() []T {
	return append([]T{}, c.items...)
}
