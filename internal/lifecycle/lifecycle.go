// Package lifecycle holds the post state machine: which statuses exist, when a
// post stops being active and when an expired post may be purged. Every
// function here is pure; callers pass the current time in.
package lifecycle

import (
	"fmt"
	"time"
)

type Status string

const (
	Lost     Status = "lost"
	Found    Status = "found"
	Returned Status = "returned"
	Claimed  Status = "claimed"
	Expired  Status = "expired"
)

const (
	// ActiveWindow is how long a lost/found post stays active after creation.
	ActiveWindow = 30 * 24 * time.Hour
	// RetentionWindow is how long an expired post is kept after its deadline.
	RetentionWindow = 30 * 24 * time.Hour
	// ExpiringSoonDays marks active posts close to their deadline.
	ExpiringSoonDays = 7
)

var allStatuses = []Status{Lost, Found, Returned, Claimed, Expired}

func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown post status %q", s)
	}
	return st, nil
}

func (s Status) Valid() bool {
	switch s {
	case Lost, Found, Returned, Claimed, Expired:
		return true
	}
	return false
}

// IsActive reports whether the stored status is lost or found.
func (s Status) IsActive() bool {
	return s == Lost || s == Found
}

// IsCreatable reports whether a new post may start in this status.
func (s Status) IsCreatable() bool {
	return s.IsActive()
}

func (s Status) String() string {
	return string(s)
}

// ExpiresAt derives the deadline of a post created at createdAt.
func ExpiresAt(createdAt time.Time) time.Time {
	return createdAt.Add(ActiveWindow)
}

// PurgeCutoff is the latest expires_at that is purgeable at now.
func PurgeCutoff(now time.Time) time.Time {
	return now.Add(-RetentionWindow)
}

// ShouldExpire reports whether a post must move to expired at now.
func ShouldExpire(stored Status, expiresAt, now time.Time) bool {
	return stored.IsActive() && !now.Before(expiresAt)
}

// ShouldPurge reports whether an expired post has outlived its retention window.
func ShouldPurge(stored Status, expiresAt, now time.Time) bool {
	return stored == Expired && !expiresAt.After(PurgeCutoff(now))
}

// Effective returns the status a post must be presented with at now,
// regardless of whether storage has caught up.
func Effective(stored Status, expiresAt, now time.Time) Status {
	if ShouldExpire(stored, expiresAt, now) {
		return Expired
	}
	return stored
}

// Countdown returns the whole days left until expiresAt (never negative) and
// whether that is within ExpiringSoonDays.
func Countdown(expiresAt, now time.Time) (int, bool) {
	left := expiresAt.Sub(now)
	days := 0
	if left > 0 {
		days = int(left / (24 * time.Hour))
	}
	return days, days <= ExpiringSoonDays
}

// CanTransition reports whether a user edit may write status to on a post
// currently stored as from. Any known status may be written; expired is
// accepted like any other value.
func CanTransition(from, to Status) bool {
	return from.Valid() && to.Valid()
}
