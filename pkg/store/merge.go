package store

// Record is a plain structured record: the node type of a state tree.
type Record = map[string]any

// Merge merges src into dst in place and returns dst. For every key in src,
// when both values are Records they are merged recursively; otherwise the
// value from src replaces the one in dst. Keys absent from src are left
// untouched at every depth. Records taken from src are copied, so dst never
// aliases src.
func Merge(dst, src Record) Record {
	for k, incoming := range src {
		if in, ok := incoming.(Record); ok {
			if cur, ok := dst[k].(Record); ok {
				Merge(cur, in)
				continue
			}
		}
		dst[k] = deepCopyValue(incoming)
	}
	return dst
}

func deepCopyRecord(r Record) Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case Record:
		return deepCopyRecord(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}
