package currency

import (
	"fmt"
	"sort"
	"strings"
)

// Pair is an unordered pair of currencies between which a rate of exchange can be entered.
type Pair struct {
	A Code
	B Code
}

func (p Pair) key() Pair {
	if p.B < p.A {
		return Pair{A: p.B, B: p.A}
	}
	return p
}

// Policy decides whether a line item must be converted into the home currency.
type Policy struct {
	pairs map[Pair]struct{}
}

// NewPolicy builds a policy supporting the given pairs in both directions.
func NewPolicy(pairs ...Pair) Policy {
	p := Policy{pairs: make(map[Pair]struct{}, len(pairs))}
	for _, pair := range pairs {
		pair = Pair{A: Normalize(string(pair.A)), B: Normalize(string(pair.B))}
		if pair.A.IsZero() || pair.B.IsZero() || pair.A == pair.B {
			continue
		}
		p.pairs[pair.key()] = struct{}{}
	}
	return p
}

// DefaultPolicy supports INR<->USD.
func DefaultPolicy() Policy {
	return NewPolicy(Pair{A: INR, B: USD})
}

// Supports reports whether a rate of exchange is defined between a and b.
func (p Policy) Supports(a, b Code) bool {
	_, ok := p.pairs[Pair{A: a, B: b}.key()]
	return ok
}

// Codes lists every currency that takes part in a pair, sorted.
func (p Policy) Codes() []Code {
	seen := make(map[Code]struct{}, len(p.pairs)*2)
	for pair := range p.pairs {
		seen[pair.A] = struct{}{}
		seen[pair.B] = struct{}{}
	}
	out := make([]Code, 0, len(seen))
	for code := range seen {
		out = append(out, code)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RequiresConversion reports whether an amount in line must carry a rate of
// exchange into business. Unset or unknown codes never require conversion.
func (p Policy) RequiresConversion(line, business Code) bool {
	line = Normalize(string(line))
	business = Normalize(string(business))
	if line.IsZero() || business.IsZero() || line == business {
		return false
	}
	return p.Supports(line, business)
}

// ParsePairs reads a comma separated list such as "INR:USD,INR:EUR".
func ParsePairs(raw string) ([]Pair, error) {
	var pairs []Pair
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.Split(item, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("currency: malformed pair %q", item)
		}
		a, b := Normalize(parts[0]), Normalize(parts[1])
		if a.IsZero() || b.IsZero() || a == b {
			return nil, fmt.Errorf("currency: malformed pair %q", item)
		}
		pairs = append(pairs, Pair{A: a, B: b})
	}
	return pairs, nil
}

// UserContext is the already resolved session data the forms thread down.
type UserContext struct {
	UserID           string
	CompanyID        int64
	BusinessCurrency Code
}

// ResolveBusinessCurrency returns the home currency of the session, INR when absent.
func ResolveBusinessCurrency(ctx UserContext) Code {
	if code := Normalize(string(ctx.BusinessCurrency)); !code.IsZero() {
		return code
	}
	return INR
}

// RequiresConversion applies the default policy.
func RequiresConversion(line, business Code) bool {
	return DefaultPolicy().RequiresConversion(line, business)
}
