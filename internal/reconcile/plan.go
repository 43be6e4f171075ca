// Package reconcile computes the row operations that make a stored item
// collection match an aggregate's in-memory items.
package reconcile

// Plan lists the writes needed for one aggregate. Insert and Update keep the
// order of the current items; Delete is in no particular order.
type Plan[K comparable, V any] struct {
	Delete []K
	Update []V
	Insert []V
}

// Build diffs persisted rows (keyed by item id) against the current items.
// A persisted id missing from current is deleted, a current item without a row
// is inserted, and a current item whose row differs according to changed is
// updated. A nil changed means stored items are never updated.
func Build[K comparable, S, V any](
	persisted map[K]S,
	current []V,
	key func(V) K,
	changed func(stored S, item V) bool,
) Plan[K, V] {
	var plan Plan[K, V]

	seen := make(map[K]struct{}, len(current))
	for _, item := range current {
		k := key(item)
		seen[k] = struct{}{}

		stored, ok := persisted[k]
		switch {
		case !ok:
			plan.Insert = append(plan.Insert, item)
		case changed != nil && changed(stored, item):
			plan.Update = append(plan.Update, item)
		}
	}

	for k := range persisted {
		if _, ok := seen[k]; !ok {
			plan.Delete = append(plan.Delete, k)
		}
	}

	return plan
}

// IsEmpty reports whether applying the plan would write nothing.
func (p Plan[K, V]) IsEmpty() bool {
	return len(p.Delete) == 0 && len(p.Update) == 0 && len(p.Insert) == 0
}
