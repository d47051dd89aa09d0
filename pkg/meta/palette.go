package meta

import (
	"slices"
)

// Tableau10 is the ten-color categorical scheme used for line types.
var Tableau10 = []string{
	"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
}

// Palette assigns each line type a stable color. Colors are handed out in
// order of first request and wrap around after the scheme is exhausted.
type Palette struct {
	scheme []string
	index  map[string]int
	order  []string
}

// NewPalette creates a palette seeded with types in sorted order, so the
// same set of types always gets the same colors.
func NewPalette(types ...string) *Palette {
	p := &Palette{scheme: Tableau10, index: make(map[string]int)}

	seed := slices.Clone(types)
	slices.Sort(seed)

	for _, t := range seed {
		p.Color(t)
	}

	return p
}

// Color returns the color of a type, assigning the next one if unseen.
func (p *Palette) Color(lineType string) string {
	i, ok := p.index[lineType]
	if !ok {
		i = len(p.order)
		p.index[lineType] = i
		p.order = append(p.order, lineType)
	}

	return p.scheme[i%len(p.scheme)]
}

// Types returns the assigned types in assignment order.
func (p *Palette) Types() []string {
	return slices.Clone(p.order)
}
