package calculator

import (
	"iter"

	"github.com/shopspring/decimal"

	"github.com/mmynk/spliteasy/internal/amount"
	"github.com/mmynk/spliteasy/internal/models"
)

// Positions maps user IDs to net positions.
// Positive = the user owes money into the group, Negative = the user is owed.
//
// Enumeration order is the order in which IDs were first added: registered
// users in registration order, then any orphan IDs in first-seen order.
type Positions struct {
	order   []string
	amounts map[string]decimal.Decimal
}

// NewPositions returns positions with every given user at zero.
func NewPositions(userIDs ...string) *Positions {
	p := &Positions{amounts: make(map[string]decimal.Decimal, len(userIDs))}
	for _, id := range userIDs {
		p.Add(id, decimal.Zero)
	}
	return p
}

// Add moves id's position by delta, creating the entry if needed.
func (p *Positions) Add(id string, delta decimal.Decimal) {
	cur, ok := p.amounts[id]
	if !ok {
		p.order = append(p.order, id)
	}
	p.amounts[id] = cur.Add(delta)
}

// Get returns id's position, zero if unknown.
func (p *Positions) Get(id string) decimal.Decimal {
	return p.amounts[id]
}

// Has reports whether id has an entry.
func (p *Positions) Has(id string) bool {
	_, ok := p.amounts[id]
	return ok
}

// Len returns the number of entries.
func (p *Positions) Len() int {
	return len(p.order)
}

// IDs returns the user IDs in enumeration order.
func (p *Positions) IDs() []string {
	return append([]string(nil), p.order...)
}

// All iterates over (id, position) pairs in enumeration order.
func (p *Positions) All() iter.Seq2[string, decimal.Decimal] {
	return func(yield func(string, decimal.Decimal) bool) {
		for _, id := range p.order {
			if !yield(id, p.amounts[id]) {
				return
			}
		}
	}
}

// Map returns a copy of the positions as a plain map.
func (p *Positions) Map() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(p.amounts))
	for id, v := range p.amounts {
		m[id] = v
	}
	return m
}

// Sum returns the sum of all positions. It is ~0 for consistent inputs.
func (p *Positions) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range p.amounts {
		total = total.Add(v)
	}
	return total
}

// Outstanding returns the total owed into the group (sum of positive positions).
func (p *Positions) Outstanding() decimal.Decimal {
	total := decimal.Zero
	for _, v := range p.amounts {
		if v.IsPositive() {
			total = total.Add(v)
		}
	}
	return total
}

// Settled reports whether every position is within tolerance of zero.
func (p *Positions) Settled() bool {
	for _, v := range p.amounts {
		if !amount.IsZero(v) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (p *Positions) Clone() *Positions {
	c := &Positions{
		order:   append([]string(nil), p.order...),
		amounts: make(map[string]decimal.Decimal, len(p.amounts)),
	}
	for id, v := range p.amounts {
		c.amounts[id] = v
	}
	return c
}

// Apply transfers each settlement's amount: the payer's position goes down,
// the receiver's goes up. The Completed flag is not consulted.
func (p *Positions) Apply(settlements ...models.Settlement) {
	for _, s := range settlements {
		p.Add(s.From, s.Amount.Neg())
		p.Add(s.To, s.Amount)
	}
}
