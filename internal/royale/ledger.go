package royale

// applyEliminations appends each victim to the cumulative elimination list
// and drops them from the survivor set. Already-recorded victims are skipped,
// so re-applying a record is a no-op.
func applyEliminations(s *Session, rec RoundRecord) {
	recorded := make(map[string]struct{}, len(s.Eliminated))
	for _, n := range s.Eliminated {
		recorded[n] = struct{}{}
	}
	for _, ev := range rec.Eliminations {
		if _, done := recorded[ev.Warrior]; done {
			continue
		}
		recorded[ev.Warrior] = struct{}{}
		s.Eliminated = append(s.Eliminated, ev.Warrior)
		s.Survivors = removeName(s.Survivors, ev.Warrior)
	}
}

// applyFactionChanges overwrites the faction map entries named in the record.
func applyFactionChanges(s *Session, rec RoundRecord) {
	for _, fc := range rec.FactionChanges {
		s.Factions[fc.Warrior] = fc.To
	}
}

func removeName(names []string, name string) []string {
	out := names[:0]
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
