package model

// Location identifies one of the celebration venues a group can be invited to.
type Location string

const (
	LocationSardinia Location = "sardinia"
	LocationTunisia  Location = "tunisia"
	LocationNice     Location = "nice"
)

// AllLocations is the fixed set of venues. Loaded once, never mutated.
var AllLocations = []Location{LocationSardinia, LocationTunisia, LocationNice}

// ValidLocation reports whether l is one of the known venues.
func ValidLocation(l Location) bool {
	for _, known := range AllLocations {
		if l == known {
			return true
		}
	}
	return false
}

// ContainsLocation reports whether set contains l.
func ContainsLocation(set []Location, l Location) bool {
	for _, v := range set {
		if v == l {
			return true
		}
	}
	return false
}

// DedupeLocations removes duplicates from locs, preserving first-seen order.
func DedupeLocations(locs []Location) []Location {
	seen := make(map[Location]struct{}, len(locs))
	out := make([]Location, 0, len(locs))
	for _, l := range locs {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// LocationStrings converts a location slice to plain strings for storage.
func LocationStrings(locs []Location) []string {
	out := make([]string, len(locs))
	for i, l := range locs {
		out[i] = string(l)
	}
	return out
}

// LocationsFromStrings converts stored strings back to typed locations.
func LocationsFromStrings(ss []string) []Location {
	out := make([]Location, len(ss))
	for i, s := range ss {
		out[i] = Location(s)
	}
	return out
}
