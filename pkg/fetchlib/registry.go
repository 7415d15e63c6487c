package fetchlib

// Callback receives the response body of a successful transfer.
// A nil Callback is allowed; the body is then discarded.
type Callback func(body []byte)

// registry maps every identity ever admitted to its callback.
// It is guarded by the engine mutex.
type registry struct {
	entries map[Identity]Callback
}

func newRegistry() *registry {
	return &registry{entries: make(map[Identity]Callback)}
}

// register records cb under id. It returns false, leaving the first
// callback in place, when id is already known.
func (r *registry) register(id Identity, cb Callback) bool {
	if _, ok := r.entries[id]; ok {
		return false
	}
	r.entries[id] = cb
	return true
}

func (r *registry) lookup(id Identity) (Callback, bool) {
	cb, ok := r.entries[id]
	return cb, ok
}

func (r *registry) remove(id Identity) {
	delete(r.entries, id)
}

func (r *registry) len() int {
	return len(r.entries)
}
