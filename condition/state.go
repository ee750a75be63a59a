// Package condition tracks named, counted conditions on an entity and
// evaluates the gating expressions traits use to decide whether they are
// enabled.
package condition

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// State maps condition names to assertion counts. A condition is active
// while its count is above zero. Several independent sources may assert the
// same condition; each must revoke it once.
type State struct {
	counts     map[string]int
	underflows int
	watchers   []func(name string)
	log        logrus.FieldLogger
}

func NewState() *State {
	return &State{counts: map[string]int{}}
}

// SetLogger sets the logger used for consistency defects.
func (s *State) SetLogger(log logrus.FieldLogger) {
	s.log = log
}

// Declare registers names with a zero count so expressions referencing them
// are defined. Existing counts are left untouched.
func (s *State) Declare(names ...string) {
	for _, name := range names {
		if _, ok := s.counts[name]; !ok {
			s.counts[name] = 0
		}
	}
}

// Count returns the assertion count for name and whether name is declared.
func (s *State) Count(name string) (int, bool) {
	if s == nil {
		return 0, false
	}
	n, ok := s.counts[name]
	return n, ok
}

// Active reports whether name is currently asserted.
func (s *State) Active(name string) bool {
	n, _ := s.Count(name)
	return n > 0
}

// AssertCondition increments name and notifies watchers.
func (s *State) AssertCondition(name string) {
	s.counts[name]++
	s.notify(name)
}

// RevokeCondition decrements name and notifies watchers. Revoking a
// condition that is not asserted is tolerated: the count stays at zero,
// nobody is notified, the underflow counter is bumped and false is returned.
func (s *State) RevokeCondition(name string) bool {
	if s.counts[name] <= 0 {
		s.underflows++
		if s.log != nil {
			s.log.WithField("condition", name).Debug("condition: revoke without matching assert")
		}
		return false
	}
	s.counts[name]--
	s.notify(name)
	return true
}

// Underflows returns how many revokes found the count already at zero.
func (s *State) Underflows() int {
	if s == nil {
		return 0
	}
	return s.underflows
}

// Watch registers fn to run after every count change.
func (s *State) Watch(fn func(name string)) {
	if fn == nil {
		return
	}
	s.watchers = append(s.watchers, fn)
}

// Names returns every declared or asserted name, sorted.
func (s *State) Names() []string {
	names := make([]string, 0, len(s.counts))
	for name := range s.counts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *State) notify(name string) {
	for _, fn := range s.watchers {
		fn(name)
	}
}
