package layout

// Size is a user-applied entity box size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a user-applied free-floating component position, used when
// entities are not visually grouped.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Cache holds user-applied geometry that takes precedence over computed
// defaults on every layout pass. Entity sizes are keyed by entity name;
// free positions by fully-qualified component path. Toggling grouping or
// editing the model never discards a manual arrangement.
type Cache struct {
	EntitySizes   map[string]Size  `json:"entity_sizes"`
	FreePositions map[string]Point `json:"free_positions"`
}

// NewCache returns an empty geometry cache.
func NewCache() *Cache {
	return &Cache{
		EntitySizes:   make(map[string]Size),
		FreePositions: make(map[string]Point),
	}
}

// SetEntitySize records a manual entity resize.
func (c *Cache) SetEntitySize(entity string, width, height float64) {
	if c.EntitySizes == nil {
		c.EntitySizes = make(map[string]Size)
	}
	c.EntitySizes[entity] = Size{Width: width, Height: height}
}

// SetFreePosition records a manual component placement.
func (c *Cache) SetFreePosition(path string, x, y float64) {
	if c.FreePositions == nil {
		c.FreePositions = make(map[string]Point)
	}
	c.FreePositions[path] = Point{X: x, Y: y}
}

// Normalize ensures both maps are non-nil after decoding.
func (c *Cache) Normalize() {
	if c.EntitySizes == nil {
		c.EntitySizes = make(map[string]Size)
	}
	if c.FreePositions == nil {
		c.FreePositions = make(map[string]Point)
	}
}
