// Package recipients maintains the ordered, mutable list of recipient
// rows for one disbursement. Row identity is positional; duplicate
// address+amount pairs are independent line items.
package recipients

import (
	"github.com/shopspring/decimal"

	"github.com/fystack/multisend/internal/units"
)

type Row struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

// Empty reports whether both fields are blank.
func (r Row) Empty() bool { return r.Address == "" && r.Amount == "" }

// Complete reports whether both fields are populated.
func (r Row) Complete() bool { return r.Address != "" && r.Amount != "" }

type Field int

const (
	FieldAddress Field = iota
	FieldAmount
)

// Source yields imported (address, amount) pairs from an external
// tabular source. The set never sees the source's file format.
type Source interface {
	Next() (address, amount string, ok bool)
}

// Set is an ordered sequence of rows. Insertion order defines message
// ordering in the batch. A set always holds at least one row.
type Set struct {
	rows []Row
}

// NewSet returns a set with a single empty row.
func NewSet() *Set {
	return &Set{rows: []Row{{}}}
}

// FromRows builds a set from existing rows, keeping their order.
func FromRows(rows []Row) *Set {
	if len(rows) == 0 {
		return NewSet()
	}
	s := &Set{rows: make([]Row, len(rows))}
	copy(s.rows, rows)
	return s
}

func (s *Set) Len() int { return len(s.rows) }

// Rows returns a snapshot copy of the rows.
func (s *Set) Rows() []Row {
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out
}

func (s *Set) Row(index int) (Row, bool) {
	if index < 0 || index >= len(s.rows) {
		return Row{}, false
	}
	return s.rows[index], true
}

// AddRow appends an empty row at the end.
func (s *Set) AddRow() {
	s.rows = append(s.rows, Row{})
}

// RemoveRow removes the row at index. Removing the sole remaining row
// is a no-op; the set never becomes empty.
func (s *Set) RemoveRow(index int) bool {
	if index < 0 || index >= len(s.rows) || len(s.rows) == 1 {
		return false
	}
	s.rows = append(s.rows[:index], s.rows[index+1:]...)
	return true
}

// UpdateField mutates one field of the row at index in place.
func (s *Set) UpdateField(index int, field Field, value string) bool {
	if index < 0 || index >= len(s.rows) {
		return false
	}
	switch field {
	case FieldAddress:
		s.rows[index].Address = value
	case FieldAmount:
		s.rows[index].Amount = value
	default:
		return false
	}
	return true
}

// MergeImported discards every existing row with both fields empty,
// then appends all rows from src. Manually filled and partially filled
// rows survive untouched. Returns the number of appended rows.
func (s *Set) MergeImported(src Source) int {
	kept := s.rows[:0]
	for _, row := range s.rows {
		if !row.Empty() {
			kept = append(kept, row)
		}
	}
	s.rows = kept

	appended := 0
	for {
		address, amount, ok := src.Next()
		if !ok {
			break
		}
		s.rows = append(s.rows, Row{Address: address, Amount: amount})
		appended++
	}

	if len(s.rows) == 0 {
		s.rows = append(s.rows, Row{})
	}
	return appended
}

// Complete returns the rows with both fields populated, in order.
func (s *Set) Complete() []Row {
	out := make([]Row, 0, len(s.rows))
	for _, row := range s.rows {
		if row.Complete() {
			out = append(out, row)
		}
	}
	return out
}

// Total sums all row amounts in display units. Empty or unparseable
// amounts contribute zero without being corrected in place.
func (s *Set) Total() decimal.Decimal {
	total := decimal.Zero
	for _, row := range s.rows {
		d, err := units.ParseAmount(row.Amount)
		if err != nil {
			continue
		}
		total = total.Add(d)
	}
	return total
}
