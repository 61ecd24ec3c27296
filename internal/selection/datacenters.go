package selection

import "ecosniper/internal/util"

// DatacenterSet is the ordered, deduplicated set of datacenters targeted
// by a purchase attempt. Identifiers are normalized case-insensitively.
// Availability plays no part here: a user may queue attempts against a
// location that is currently out of stock.
type DatacenterSet struct {
	order  []string
	member map[string]bool
}

// NewDatacenterSet returns an empty datacenter set.
func NewDatacenterSet() *DatacenterSet {
	return &DatacenterSet{member: make(map[string]bool)}
}

// Toggle adds the datacenter if absent or removes it if present, and
// reports whether it is selected afterwards.
func (d *DatacenterSet) Toggle(id string) (selected bool) {
	key := util.NormalizeKey(id)
	if key == "" {
		return false
	}
	if d.member[key] {
		d.remove(key)
		return false
	}
	d.member[key] = true
	d.order = append(d.order, key)
	return true
}

// Add inserts a datacenter, reporting whether the set changed.
func (d *DatacenterSet) Add(id string) (changed bool) {
	key := util.NormalizeKey(id)
	if key == "" || d.member[key] {
		return false
	}
	d.member[key] = true
	d.order = append(d.order, key)
	return true
}

// Contains reports membership, case-insensitively.
func (d *DatacenterSet) Contains(id string) bool {
	return d.member[util.NormalizeKey(id)]
}

// IDs returns the selected identifiers in insertion order. The slice is
// a copy.
func (d *DatacenterSet) IDs() []string {
	return append([]string(nil), d.order...)
}

// Len returns the number of selected datacenters.
func (d *DatacenterSet) Len() int { return len(d.order) }

// Clear empties the set. Called explicitly by the user or after a
// successful task submission.
func (d *DatacenterSet) Clear() {
	d.order = nil
	d.member = make(map[string]bool)
}

func (d *DatacenterSet) remove(key string) {
	delete(d.member, key)
	for i, existing := range d.order {
		if existing == key {
			d.order = append(d.order[:i:i], d.order[i+1:]...)
			return
		}
	}
}
