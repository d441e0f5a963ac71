package sequencer

import "sync"

// KeyMapper converts a display row to an absolute pitch through a cached
// lookup table. The table is rebuilt (debounced) whenever scale, octave
// offset, or the chromatic flag changes; the mutex covers the swap since
// the rebuild runs on a timer goroutine while render reads.
type KeyMapper struct {
	mu    sync.Mutex
	table []int
}

func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// Map returns the pitch for a display row, or a negative sentinel when
// the row has no valid mapping.
func (k *KeyMapper) Map(row int) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	if row < 0 || row >= len(k.table) {
		return -1
	}
	return k.table[row]
}

// SetTable swaps in a freshly generated lookup table.
func (k *KeyMapper) SetTable(table []int) {
	k.mu.Lock()
	k.table = table
	k.mu.Unlock()
}
