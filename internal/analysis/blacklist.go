package analysis

import "sync"

// Blacklist is a concurrency-safe set of pair addresses. The scan loop
// owns it and may append while classification reads it.
type Blacklist struct {
	mu  sync.RWMutex
	set map[string]struct{}
}

// NewBlacklist creates a blacklist seeded with the given addresses.
func NewBlacklist(addresses []string) *Blacklist {
	bl := &Blacklist{set: make(map[string]struct{}, len(addresses))}
	for _, addr := range addresses {
		bl.set[addr] = struct{}{}
	}
	return bl
}

// Contains reports membership.
func (b *Blacklist) Contains(address string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.set[address]
	return ok
}

// Add inserts an address. Adding an existing address is a no-op.
func (b *Blacklist) Add(address string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.set[address] = struct{}{}
}

// Addresses returns a copy of the current entries.
func (b *Blacklist) Addresses() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.set))
	for addr := range b.set {
		out = append(out, addr)
	}
	return out
}

// Len returns the number of entries.
func (b *Blacklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.set)
}
