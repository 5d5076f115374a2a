package house

// Merge concatenates the primary sequence (public registry) ahead of
// the secondary sequence (private registries) and drops later records
// that repeat an already-seen HouseID. The first occurrence wins
// whole; duplicates are not merged field by field. Records without a
// HouseID are never treated as duplicates and are always retained.
func Merge(primary, secondary []House) []House {
	merged := make([]House, 0, len(primary)+len(secondary))
	seen := make(map[string]struct{}, len(primary))

	for _, h := range append(append([]House{}, primary...), secondary...) {
		if h.HouseID == "" {
			merged = append(merged, h)
			continue
		}
		if _, dup := seen[h.HouseID]; dup {
			continue
		}
		seen[h.HouseID] = struct{}{}
		merged = append(merged, h)
	}

	return merged
}
