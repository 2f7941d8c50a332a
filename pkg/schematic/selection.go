package schematic

import "github.com/pkg/errors"

// SetSelection replaces the selection. Unknown identifiers fail with
// ErrNotFound and leave the selection unchanged.
func (d *Document) SetSelection(ids ...string) error {
	next := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := d.index[id]; !ok {
			return errors.Wrapf(ErrNotFound, "select %s", id)
		}
		next[id] = true
	}
	d.selection = next
	return nil
}

// ClearSelection empties the selection.
func (d *Document) ClearSelection() {
	d.selection = make(map[string]bool)
}

// IsSelected reports whether id is selected.
func (d *Document) IsSelected(id string) bool {
	return d.selection[id]
}

// Selection returns the selected identifiers in document order.
func (d *Document) Selection() []string {
	if len(d.selection) == 0 {
		return nil
	}
	out := make([]string, 0, len(d.selection))
	for _, c := range d.components {
		if d.selection[c.ID] {
			out = append(out, c.ID)
		}
	}
	return out
}
