package hierarchy

import (
	"github.com/shopspring/decimal"

	"github.com/ppiankov/dartxbrl/internal/xbrl"
)

// Component is one weighted summand of a calculation total
type Component struct {
	Concept string
	Weight  decimal.Decimal
}

// Sums maps a total concept to its calculation components
type Sums map[string][]Component

// NewSums collects summation-item relations from calculation networks.
// When several networks define the same total, the first role wins.
func NewSums(networks []xbrl.Network) Sums {
	sums := make(Sums)
	for _, net := range networks {
		local := make(map[string][]Component)
		for _, a := range net.Arcs {
			local[a.From] = append(local[a.From], Component{
				Concept: a.To,
				Weight:  decimal.NewFromFloat(a.Weight),
			})
		}
		for total, comps := range local {
			if _, defined := sums[total]; !defined {
				sums[total] = comps
			}
		}
	}
	return sums
}
