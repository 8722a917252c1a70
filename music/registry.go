package music

// Registry is the insertion-ordered set of live voices. The last voice is
// the active one unless every voice is exiting.
//
// Registry is not safe for concurrent use; Controller serialises access.
type Registry struct {
	voices  []*Voice
	exiting bool
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends v as the new active voice and reports whether anything changed.
//
// Adding a clip the active voice already plays is a no-op. A voice that is
// already registered is moved to the end instead of being duplicated.
func (r *Registry) Add(v *Voice) (bool, error) {
	if v == nil || !v.Clip.Valid() {
		return false, ErrInvalidHandle
	}
	if active := r.Active(); active != nil && (active == v || active.Clip == v.Clip) {
		return false, nil
	}

	if i := r.indexOf(v); i >= 0 {
		r.voices = append(r.voices[:i], r.voices[i+1:]...)
	}
	r.voices = append(r.voices, v)
	r.exiting = false
	return true, nil
}

// Active returns the voice that should be rising, or nil.
func (r *Registry) Active() *Voice {
	if r == nil || r.exiting || len(r.voices) == 0 {
		return nil
	}
	return r.voices[len(r.voices)-1]
}

func (r *Registry) MarkAllExiting() {
	r.exiting = true
}

func (r *Registry) ClearExiting() {
	r.exiting = false
}

func (r *Registry) Exiting() bool {
	return r.exiting
}

// Remove drops v and destroys its output unless v is persistent. Removing a
// voice that is not registered does nothing.
func (r *Registry) Remove(v *Voice) error {
	i := r.indexOf(v)
	if i < 0 {
		return nil
	}
	r.voices = append(r.voices[:i], r.voices[i+1:]...)
	if v.Persistent {
		return nil
	}
	return v.destroy()
}

func (r *Registry) Contains(v *Voice) bool {
	return r.indexOf(v) >= 0
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.voices)
}

// Voices returns a snapshot of the registered voices in insertion order.
func (r *Registry) Voices() []*Voice {
	if r == nil {
		return nil
	}
	voices := make([]*Voice, 0, len(r.voices))
	return append(voices, r.voices...)
}

func (r *Registry) indexOf(v *Voice) int {
	if r == nil || v == nil {
		return -1
	}
	for i, cur := range r.voices {
		if cur == v || cur.ID == v.ID {
			return i
		}
	}
	return -1
}
