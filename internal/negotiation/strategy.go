package negotiation

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Strategy is the escalation table: the percentage of the listed price
// offered at each round. The last entry is the plateau; once every round
// has been played the negotiation can only end in a walk-away.
type Strategy struct {
	Name        string
	Percentages []int64
}

// Built-in tables. Ackerman is the "Never Split the Difference" curve,
// conservative is the gentler variant.
var builtinStrategies = map[string][]int64{
	"ackerman":     {65, 85, 95, 100},
	"conservative": {50, 60, 70},
}

// MaxRounds is the number of automatic offers this strategy produces.
func (s Strategy) MaxRounds() int {
	return len(s.Percentages)
}

// PercentOf returns the table value for 1-indexed round, clamped to the
// plateau for rounds past the end of the table.
func (s Strategy) PercentOf(round int) int64 {
	if round < 1 {
		round = 1
	}
	if round > len(s.Percentages) {
		round = len(s.Percentages)
	}
	return s.Percentages[round-1]
}

// OfferFor computes the round's offer: round(price * pct) to the currency
// minor unit.
func (s Strategy) OfferFor(price decimal.Decimal, round int) decimal.Decimal {
	pct := decimal.NewFromInt(s.PercentOf(round))
	return price.Mul(pct).Div(decimal.NewFromInt(100)).Round(2)
}

func (s Strategy) validate() error {
	if len(s.Percentages) == 0 {
		return fmt.Errorf("strategy %q has no rounds", s.Name)
	}
	prev := int64(0)
	for i, p := range s.Percentages {
		if p <= 0 {
			return fmt.Errorf("strategy %q round %d: percentage must be positive", s.Name, i+1)
		}
		if p <= prev {
			return fmt.Errorf("strategy %q round %d: percentages must strictly increase", s.Name, i+1)
		}
		prev = p
	}
	return nil
}

// LoadStrategy resolves a strategy by name, from the optional YAML file
// first (a mapping of name to percentage list), then from the built-ins.
func LoadStrategy(name, file string) (Strategy, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return Strategy{}, fmt.Errorf("read strategy file: %w", err)
		}
		var tables map[string][]int64
		if err := yaml.Unmarshal(data, &tables); err != nil {
			return Strategy{}, fmt.Errorf("parse strategy file: %w", err)
		}
		if pcts, ok := tables[name]; ok {
			s := Strategy{Name: name, Percentages: pcts}
			if err := s.validate(); err != nil {
				return Strategy{}, err
			}
			return s, nil
		}
	}

	pcts, ok := builtinStrategies[name]
	if !ok {
		return Strategy{}, fmt.Errorf("unknown strategy %q", name)
	}
	return Strategy{Name: name, Percentages: pcts}, nil
}
