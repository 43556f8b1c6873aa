package entity

// Append returns a new slice with record added at the end.
func Append[E Identified](items []E, records ...E) []E {
	out := make([]E, 0, len(items)+len(records))
	out = append(out, items...)
	return append(out, records...)
}

// Replace returns a new slice where the entry sharing record's id is swapped
// for record. Unknown ids leave the collection unchanged.
func Replace[E Identified](items []E, record E) []E {
	out := make([]E, len(items))
	for i, item := range items {
		if item.EntityID() == record.EntityID() {
			out[i] = record
			continue
		}
		out[i] = item
	}
	return out
}

// Remove returns a new slice without the entry identified by id.
func Remove[E Identified](items []E, id string) []E {
	out := make([]E, 0, len(items))
	for _, item := range items {
		if item.EntityID() != id {
			out = append(out, item)
		}
	}
	return out
}

// Find returns the entry identified by id.
func Find[E Identified](items []E, id string) (E, bool) {
	for _, item := range items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero E
	return zero, false
}
