package rooms

// room holds the members of one room id. It has no lock of its own; every
// access goes through the owning Registry's lock.
type room struct {
	members map[User]*Queue
}

func newRoom() *room { return &room{members: map[User]*Queue{}} }

// add registers q for u and returns the queue it displaced, if any.
func (r *room) add(u User, q *Queue) *Queue {
	prev := r.members[u]
	r.members[u] = q
	return prev
}

// remove drops u only while u is still registered with q.
func (r *room) remove(u User, q *Queue) bool {
	cur, ok := r.members[u]
	if !ok || cur != q {
		return false
	}
	delete(r.members, u)
	return true
}

func (r *room) broadcast(m Message) Delivery {
	var d Delivery
	for _, q := range r.members {
		if err := q.Push(m); err != nil {
			d.Failed++
			continue
		}
		d.Delivered++
	}
	return d
}

func (r *room) detachAll() {
	for u, q := range r.members {
		q.Close()
		delete(r.members, u)
	}
}
