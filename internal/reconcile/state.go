package reconcile

import "github.com/mrchypark/pocketbase-go-skill/internal/models"

// State is the reconciler's view of the backend during one Apply run: the
// remote collections by name and the name-to-identifier index used for
// reference resolution. It is read from the backend once and then only
// updated by successful creates of the same run.
type State struct {
	Remote map[string]models.Collection
	Index  models.NameIndex
}

// NewState builds a State from a remote collection listing.
func NewState(remote []models.Collection) *State {
	s := &State{
		Remote: make(map[string]models.Collection, len(remote)),
		Index:  make(models.NameIndex, len(remote)),
	}
	for _, c := range remote {
		s.Record(c)
	}
	return s
}

// Record registers c as existing remotely.
func (s *State) Record(c models.Collection) {
	s.Remote[c.Name] = c
	s.Index[c.Name] = c.ID
}

// Lookup returns the remote collection called name.
func (s *State) Lookup(name string) (models.Collection, bool) {
	c, ok := s.Remote[name]
	return c, ok
}
