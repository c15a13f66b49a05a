package tree

// MergeDistinct deep-merges override onto base and returns a new tree;
// neither input is modified.
//
// For each key in override: when both sides hold mappings the merge
// recurses, otherwise override's value replaces base's outright. Scalars,
// sequences, and type mismatches are full replacements, never
// concatenations. Key order in the result follows base for pre-existing
// keys, with keys new in override appended in their declared order.
//
// This single function governs how the local override layer overlays the
// main settings file, and how declared settings overlay the defaults table.
func MergeDistinct(base, override *Tree) *Tree {
	if base == nil {
		return override.Copy()
	}
	out := base.Copy()
	if override == nil {
		return out
	}
	for _, k := range override.keys {
		ov := override.values[k]
		bv, exists := out.values[k]
		if exists {
			bm, bok := bv.(*Tree)
			om, ook := ov.(*Tree)
			if bok && ook {
				out.values[k] = MergeDistinct(bm, om)
				continue
			}
		}
		out.SetKey(k, CopyValue(ov))
	}
	return out
}
