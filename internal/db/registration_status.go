package db

import "fmt"

// RegistrationStatus is the lifecycle state of a registration.
type RegistrationStatus string

const (
	StatusRegistered  RegistrationStatus = "registered"
	StatusApplied     RegistrationStatus = "applied"
	StatusShortlisted RegistrationStatus = "shortlisted"
	StatusSelected    RegistrationStatus = "selected"
	StatusRejected    RegistrationStatus = "rejected"
	StatusWithdrawn   RegistrationStatus = "withdrawn"
)

// forward lists the single forward step from each progressing state.
var forward = map[RegistrationStatus]RegistrationStatus{
	StatusRegistered:  StatusApplied,
	StatusApplied:     StatusShortlisted,
	StatusShortlisted: StatusSelected,
}

// ParseRegistrationStatus validates s as a RegistrationStatus.
func ParseRegistrationStatus(s string) (RegistrationStatus, error) {
	switch st := RegistrationStatus(s); st {
	case StatusRegistered, StatusApplied, StatusShortlisted, StatusSelected, StatusRejected, StatusWithdrawn:
		return st, nil
	}
	return "", fmt.Errorf("invalid registration status: %q", s)
}

// IsTerminal reports whether no transition leaves s.
func (s RegistrationStatus) IsTerminal() bool {
	return s == StatusSelected || s == StatusRejected || s == StatusWithdrawn
}

// IsTransitionAllowed reports whether a registration may move from one status
// to another. Progress is one step at a time; any non-terminal state may end
// in rejected or withdrawn.
func IsTransitionAllowed(from, to RegistrationStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == StatusRejected || to == StatusWithdrawn {
		return true
	}
	return forward[from] == to
}
