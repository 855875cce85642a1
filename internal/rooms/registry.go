package rooms

import "sync"

// Delivery summarizes one fan-out call.
type Delivery struct {
	Delivered int
	Failed    int
}

// Registry maps room ids to rooms behind a single RWMutex. Fan-out lookups
// share the read lock; join, leave and clear take the write lock for the
// duration of the mutation only.
type Registry struct {
	mu    sync.RWMutex
	rooms map[uint64]*room
}

func NewRegistry() *Registry {
	return &Registry{rooms: map[uint64]*room{}}
}

// Join registers a fresh queue for u in roomID, creating the room on first
// use. A previous registration under the same name is replaced and its queue
// closed, which ends that session's forwarding loop.
func (rg *Registry) Join(roomID uint64, u User) (q *Queue, displaced bool) {
	q = NewQueue()

	rg.mu.Lock()
	r, ok := rg.rooms[roomID]
	if !ok {
		r = newRoom()
		rg.rooms[roomID] = r
	}
	prev := r.add(u, q)
	rg.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
	return q, prev != nil
}

// Leave removes u from roomID if it is still registered with q, and closes q.
// Empty rooms are kept.
func (rg *Registry) Leave(roomID uint64, u User, q *Queue) bool {
	rg.mu.Lock()
	removed := false
	if r, ok := rg.rooms[roomID]; ok {
		removed = r.remove(u, q)
	}
	rg.mu.Unlock()

	q.Close()
	return removed
}

// Broadcast pushes m onto every member queue of roomID. An unknown room is a
// no-op. A closed queue only fails its own delivery.
func (rg *Registry) Broadcast(roomID uint64, m Message) Delivery {
	rg.mu.RLock()
	defer rg.mu.RUnlock()

	r, ok := rg.rooms[roomID]
	if !ok {
		return Delivery{}
	}
	return r.broadcast(m)
}

// Clear drops every room and closes every member queue. onCleared, if not
// nil, runs while the write lock is still held.
func (rg *Registry) Clear(onCleared func()) int {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	n := len(rg.rooms)
	for id, r := range rg.rooms {
		r.detachAll()
		delete(rg.rooms, id)
	}
	if onCleared != nil {
		onCleared()
	}
	return n
}

// Occupants returns the member count of roomID, zero if the room is absent.
func (rg *Registry) Occupants(roomID uint64) int {
	rg.mu.RLock()
	defer rg.mu.RUnlock()

	if r, ok := rg.rooms[roomID]; ok {
		return len(r.members)
	}
	return 0
}

func (rg *Registry) RoomCount() int {
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	return len(rg.rooms)
}
