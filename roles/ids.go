package roles

import (
	"errors"
	"math"
	"sync"
	"time"
)

// RoleIDSource hands out role identifiers for new roles
type RoleIDSource interface {
	NextRoleID() (uint16, error)
}

// ClockRoleIDs derives a role id from the last four digits of the current
// Unix millisecond timestamp. Two roles created in the same millisecond, or
// 10s apart to the millisecond, collide; use SequentialRoleIDs where that matters.
type ClockRoleIDs struct {
	Now func() time.Time
}

func (c ClockRoleIDs) NextRoleID() (uint16, error) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return uint16(now().UnixMilli() % 10000), nil
}

// ErrRoleIDsExhausted is returned once every non-zero role id is taken
var ErrRoleIDsExhausted = errors.New("no unused role ids left")

// SequentialRoleIDs counts up from the highest id already in use, wrapping
// past 65535 to 1 and skipping ids it has seen or issued
type SequentialRoleIDs struct {
	mu   sync.Mutex
	next uint16
	used map[uint16]struct{}
}

// NewSequentialRoleIDs starts after the largest of used, or at 1
func NewSequentialRoleIDs(used []uint16) *SequentialRoleIDs {
	s := &SequentialRoleIDs{used: make(map[uint16]struct{}, len(used))}
	var highest uint16
	for _, id := range used {
		s.used[id] = struct{}{}
		if id > highest {
			highest = id
		}
	}
	s.next = highest + 1
	return s
}

func (s *SequentialRoleIDs) NextRoleID() (uint16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// at most one full lap of the id space
	for range math.MaxUint16 + 1 {
		id := s.next
		s.next++
		if id == 0 {
			continue
		}
		if _, taken := s.used[id]; taken {
			continue
		}
		s.used[id] = struct{}{}
		return id, nil
	}
	return 0, ErrRoleIDsExhausted
}
