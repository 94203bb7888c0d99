package pricing

// Resolve prices a (size, format, set type) variant. The boolean is false when
// the size is unknown for the selected table or the format is not offered for
// it; callers must then treat the variant as unpurchasable rather than fall
// back to a default price.
func Resolve(size string, format Format, setType SetType) (int, bool) {
	row, ok := TableFor(setType).Lookup(NormalizeSize(size))
	if !ok {
		return 0, false
	}
	return row.Cell(format).Price()
}

// Availability reports, for one size, which formats can be bought.
func Availability(size string, setType SetType) map[Format]bool {
	out := make(map[Format]bool, len(Formats))
	for _, f := range Formats {
		_, ok := Resolve(size, f, setType)
		out[f] = ok
	}
	return out
}

// Quote is a resolved price, or the reason it could not be resolved.
type Quote struct {
	Size      string  `json:"size"`
	Format    Format  `json:"format"`
	SetType   SetType `json:"set_type"`
	Price     *int    `json:"price"`
	Available bool    `json:"available"`
}

// QuoteFor wraps Resolve in a serializable value.
func QuoteFor(size string, format Format, setType SetType) Quote {
	q := Quote{Size: NormalizeSize(size), Format: format, SetType: setType}
	if price, ok := Resolve(size, format, setType); ok {
		q.Price = &price
		q.Available = true
	}
	return q
}
