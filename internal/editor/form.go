// Package editor turns a fetched model configuration into a set of
// dropdowns and builds the change request from the current selections.
package editor

import (
	"fmt"

	"voxdesk/internal/models"
)

// Row is one dropdown. Its key is the item name and its position.
type Row struct {
	Index    int
	Item     models.Item
	Selected int
}

// Value returns the selected option, or "" when the item has no options.
func (r Row) Value() string {
	if r.Selected < 0 || r.Selected >= len(r.Item.Options) {
		return ""
	}
	return r.Item.Options[r.Selected]
}

// Form holds the editor state for one model.
type Form struct {
	Model string
	rows  []Row
}

// NewForm builds one row per config item, each starting at its first option.
func NewForm(model string, cfg models.Config) *Form {
	f := &Form{Model: model, rows: make([]Row, len(cfg.Items))}
	for i, it := range cfg.Items {
		f.rows[i] = Row{Index: i, Item: it}
	}
	return f
}

// Rows returns a copy of the rows in server order.
func (f *Form) Rows() []Row {
	out := make([]Row, len(f.rows))
	copy(out, f.rows)
	return out
}

// Len returns the number of rows.
func (f *Form) Len() int { return len(f.rows) }

// Select picks option for row.
func (f *Form) Select(row, option int) error {
	if row < 0 || row >= len(f.rows) {
		return fmt.Errorf("row %d out of range", row)
	}
	if option < 0 || option >= len(f.rows[row].Item.Options) {
		return fmt.Errorf("option %d out of range for %q", option, f.rows[row].Item.Name)
	}
	f.rows[row].Selected = option
	return nil
}

// SelectValue picks the option equal to value in the row named name.
func (f *Form) SelectValue(name, value string) error {
	for i, r := range f.rows {
		if r.Item.Name != name {
			continue
		}
		for j, opt := range r.Item.Options {
			if opt == value {
				f.rows[i].Selected = j
				return nil
			}
		}
		return fmt.Errorf("%q is not an option of %q", value, name)
	}
	return fmt.Errorf("unknown key %q", name)
}

// Cycle moves the selection of row by delta, wrapping around.
func (f *Form) Cycle(row, delta int) {
	if row < 0 || row >= len(f.rows) {
		return
	}
	n := len(f.rows[row].Item.Options)
	if n == 0 {
		return
	}
	f.rows[row].Selected = ((f.rows[row].Selected+delta)%n + n) % n
}

// Payload returns the change request: every fetched key once, carrying only
// its selected option.
func (f *Form) Payload() models.Config {
	cfg := models.Config{Items: make([]models.Item, len(f.rows))}
	for i, r := range f.rows {
		it := r.Item
		if len(it.Options) > 0 {
			it.Options = []string{r.Value()}
		} else {
			it.Options = []string{}
		}
		cfg.Items[i] = it
	}
	return cfg
}
