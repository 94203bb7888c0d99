package pricing

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Format is the physical presentation of a print.
type Format string

const (
	Rolled Format = "Rolled"
	Canvas Format = "Canvas"
	Frame  Format = "Frame"
)

// Formats lists every format in display order.
var Formats = []Format{Rolled, Canvas, Frame}

// ParseFormat matches s case-insensitively against the known formats.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(strings.TrimSpace(s), string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// SetType is the number of pieces a product is sold as.
type SetType string

const (
	Basic    SetType = "Basic"
	TwoSet   SetType = "2-Set"
	ThreeSet SetType = "3-Set"
	// Square is accepted from the shop filters and priced as Basic.
	Square SetType = "Square"
)

// ParseSetType accepts the set types used by the catalog. Empty input is Basic.
func ParseSetType(s string) (SetType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "basic":
		return Basic, nil
	case "2-set":
		return TwoSet, nil
	case "3-set":
		return ThreeSet, nil
	case "square":
		return Square, nil
	}
	return "", fmt.Errorf("unknown set type %q", s)
}

// Cell is one price in a table row. The zero Cell means the combination is
// not offered.
type Cell struct {
	price   int
	offered bool
}

func offer(price int) Cell { return Cell{price: price, offered: true} }

var notOffered = Cell{}

// Price reports the price and whether the combination can be purchased.
func (c Cell) Price() (int, bool) {
	return c.price, c.offered
}

func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.offered {
		return []byte("null"), nil
	}
	return json.Marshal(c.price)
}

// Row holds the price of each format for one size.
type Row struct {
	Rolled Cell `json:"Rolled"`
	Canvas Cell `json:"Canvas"`
	Frame  Cell `json:"Frame"`
}

// Cell returns the entry for f. Unknown formats are never offered.
func (r Row) Cell(f Format) Cell {
	switch f {
	case Rolled:
		return r.Rolled
	case Canvas:
		return r.Canvas
	case Frame:
		return r.Frame
	}
	return notOffered
}

// Table maps canonical sizes to rows. Tables are built once at init and never
// written afterwards, so they are safe for concurrent readers.
type Table struct {
	setType SetType
	order   []string
	rows    map[string]Row
}

type entry struct {
	size string
	row  Row
}

func newTable(setType SetType, entries ...entry) *Table {
	t := &Table{
		setType: setType,
		order:   make([]string, 0, len(entries)),
		rows:    make(map[string]Row, len(entries)),
	}
	for _, e := range entries {
		t.order = append(t.order, e.size)
		t.rows[e.size] = e.row
	}
	return t
}

// SetType returns the set type the table prices.
func (t *Table) SetType() SetType { return t.setType }

// Lookup finds the row for an already normalized size.
func (t *Table) Lookup(size string) (Row, bool) {
	row, ok := t.rows[size]
	return row, ok
}

// Sizes returns the table keys in catalogue order.
func (t *Table) Sizes() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

func (t *Table) MarshalJSON() ([]byte, error) {
	type sizedRow struct {
		Size string `json:"size"`
		Row
	}
	rows := make([]sizedRow, 0, len(t.order))
	for _, size := range t.order {
		rows = append(rows, sizedRow{Size: size, Row: t.rows[size]})
	}
	return json.Marshal(struct {
		SetType SetType    `json:"set_type"`
		Rows    []sizedRow `json:"rows"`
	}{t.setType, rows})
}

func row(rolled, canvas int, frame Cell) Row {
	return Row{Rolled: offer(rolled), Canvas: offer(canvas), Frame: frame}
}

// 48X66 has no Frame in any set: oversized frames are not manufactured.
var (
	basicTable = newTable(Basic,
		entry{"8X12", row(679, 800, offer(999))},
		entry{"12X18", row(879, 1100, offer(1299))},
		entry{"18X24", row(1280, 1699, offer(1799))},
		entry{"20X30", row(1780, 2599, offer(2799))},
		entry{"24X36", row(1999, 2999, offer(3299))},
		entry{"30X40", row(3580, 4599, offer(5199))},
		entry{"36X48", row(3500, 5799, offer(6499))},
		entry{"48X66", row(5879, 9430, notOffered)},
		entry{"18X18", row(1199, 1699, offer(1899))},
		entry{"24X24", row(1599, 2299, offer(2499))},
		entry{"36X36", row(3199, 4599, offer(4999))},
		entry{"20X20", row(1299, 1899, offer(1999))},
		entry{"30X30", row(2199, 3199, offer(3499))},
	)

	twoSetTable = newTable(TwoSet,
		entry{"8X12", row(1299, 1599, offer(1999))},
		entry{"12X18", row(1899, 2199, offer(2499))},
		entry{"18X24", row(2499, 3399, offer(3599))},
		entry{"20X30", row(3799, 5199, offer(5599))},
		entry{"24X36", row(3999, 5999, offer(6599))},
		entry{"30X40", row(5799, 9399, offer(10399))},
		entry{"36X48", row(6999, 11599, offer(12999))},
		entry{"48X66", row(11799, 18899, notOffered)},
	)

	threeSetTable = newTable(ThreeSet,
		entry{"8X12", row(2099, 2499, offer(2999))},
		entry{"12X18", row(2699, 3399, offer(3899))},
		entry{"18X24", row(3899, 5099, offer(5399))},
		entry{"20X30", row(5399, 7799, offer(8399))},
		entry{"24X36", row(6999, 8899, offer(9599))},
		entry{"30X40", row(8699, 14099, offer(15559))},
		entry{"36X48", row(10599, 17399, offer(19499))},
		entry{"48X66", row(17699, 28299, notOffered)},
	)
)

// TableFor selects the table for a set type. Anything other than 2-Set and
// 3-Set, including Square and the empty value, uses the Basic table.
func TableFor(setType SetType) *Table {
	switch setType {
	case TwoSet:
		return twoSetTable
	case ThreeSet:
		return threeSetTable
	default:
		return basicTable
	}
}

// Tables returns every distinct table in Basic, 2-Set, 3-Set order.
func Tables() []*Table {
	return []*Table{basicTable, twoSetTable, threeSetTable}
}
