package timeslot

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TimeOfDay is a validated time-of-day with minute precision.
// The canonical textual form is "HH:MM"; the storage form carries
// seconds ("HH:MM:SS") because that is what the bookings and closures
// tables hold.
type TimeOfDay struct {
	hour   int
	minute int
}

// Parse accepts "HH:MM" or "HH:MM:SS" (surrounding whitespace ignored)
// and returns the value. A seconds field must be "00": slots start on
// whole minutes.
func Parse(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", s)
	}

	if len(parts[1]) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", s)
	}

	if len(parts) == 3 && parts[2] != "00" {
		return TimeOfDay{}, fmt.Errorf("invalid seconds in %q: slots start on whole minutes", s)
	}

	return TimeOfDay{hour: hour, minute: minute}, nil
}

// String returns the canonical "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}

// Storage returns the "HH:MM:SS" form used in the database.
func (t TimeOfDay) Storage() string {
	return fmt.Sprintf("%02d:%02d:00", t.hour, t.minute)
}

// Minutes returns minutes since midnight, for ordering.
func (t TimeOfDay) Minutes() int {
	return t.hour*60 + t.minute
}

// Normalize collapses any accepted time representation to the canonical
// "HH:MM" key. Idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(s string) (string, error) {
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

// NormalizeAll normalizes a set of raw time strings into a sorted,
// de-duplicated list of canonical keys. Entries that do not parse are
// dropped rather than failing the whole set: a single malformed row in
// the store must not blank out the rest of the day.
func NormalizeAll(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		key, err := Normalize(s)
		if err != nil {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// ParseList validates a caller-supplied slot list for a weekly template.
// Unlike NormalizeAll it rejects the whole list on the first malformed
// entry, since templates are edited by the admin and silently dropping
// an entry would hide the mistake. Entries must already be in "HH:MM"
// shape; the result is sorted and de-duplicated.
func ParseList(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if len(strings.TrimSpace(s)) != 5 {
			return nil, fmt.Errorf("invalid slot %q: expected HH:MM", s)
		}
		key, err := Normalize(s)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	sort.Strings(out)
	return out, nil
}
