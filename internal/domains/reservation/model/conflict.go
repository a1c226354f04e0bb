package model

import (
	"time"

	"toolhub/shared/timezone"
)

// Overlaps is the inclusive interval test: ranges sharing a boundary day overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !(timezone.DateOnly(aEnd).Before(timezone.DateOnly(bStart)) || timezone.DateOnly(aStart).After(timezone.DateOnly(bEnd)))
}

// FindConflict returns the first active reservation, other than excludeID, whose
// range overlaps [start, end].
func FindConflict(existing []Reservation, start, end time.Time, excludeID string) (Reservation, bool) {
	for _, r := range existing {
		if r.Status != StatusActive || (excludeID != "" && r.ID == excludeID) {
			continue
		}

		if Overlaps(r.StartDate, r.EndDate, start, end) {
			return r, true
		}
	}

	return Reservation{}, false
}

func HasConflict(existing []Reservation, start, end time.Time, excludeID string) bool {
	_, found := FindConflict(existing, start, end, excludeID)

	return found
}
