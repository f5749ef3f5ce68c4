package buzz

// Collector accumulates candidate video ids from any number of discovery
// sources, deduplicating as it goes. Candidates that are not exactly
// VideoIDLength characters are structural noise from the harvest and are
// dropped silently. Output order is unspecified; callers must not depend
// on it.
type Collector struct {
	ids map[string]struct{}
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{ids: make(map[string]struct{})}
}

// Add records each valid candidate. Adding an id already present is a no-op.
func (c *Collector) Add(candidates ...string) {
	for _, id := range candidates {
		if len(id) != VideoIDLength {
			continue
		}
		c.ids[id] = struct{}{}
	}
}

// IDs returns the collected set as a slice.
func (c *Collector) IDs() []string {
	out := make([]string, 0, len(c.ids))
	for id := range c.ids {
		out = append(out, id)
	}
	return out
}

// Len reports the number of distinct ids collected.
func (c *Collector) Len() int {
	return len(c.ids)
}
