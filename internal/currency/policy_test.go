package currency

import "testing"

func TestRequiresConversion(t *testing.T) {
	cases := []struct {
		name     string
		line     Code
		business Code
		want     bool
	}{
		{"usd into inr", USD, INR, true},
		{"inr into usd", INR, USD, true},
		{"same currency", INR, INR, false},
		{"lower case", "usd", "inr", true},
		{"unset line", "", INR, false},
		{"unset business", USD, "", false},
		{"unknown pair", "EUR", INR, false},
		{"garbage", "??", INR, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RequiresConversion(tc.line, tc.business); got != tc.want {
				t.Fatalf("RequiresConversion(%q,%q)=%v want %v", tc.line, tc.business, got, tc.want)
			}
		})
	}
}

func TestPolicyExtraPairs(t *testing.T) {
	pairs, err := ParsePairs("INR:USD, eur:inr")
	if err != nil {
		t.Fatalf("ParsePairs: %v", err)
	}
	policy := NewPolicy(pairs...)
	if !policy.RequiresConversion("EUR", INR) {
		t.Fatalf("expected EUR->INR to require conversion")
	}
	if policy.RequiresConversion("EUR", USD) {
		t.Fatalf("EUR->USD was never configured")
	}
	codes := policy.Codes()
	if len(codes) != 3 || codes[0] != "EUR" || codes[1] != INR || codes[2] != USD {
		t.Fatalf("unexpected codes %v", codes)
	}
}

func TestParsePairsRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"INR", "INR:INR", "INR:USD:EUR", ":USD"} {
		if _, err := ParsePairs(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestResolveBusinessCurrency(t *testing.T) {
	if got := ResolveBusinessCurrency(UserContext{}); got != INR {
		t.Fatalf("expected INR default got %s", got)
	}
	if got := ResolveBusinessCurrency(UserContext{BusinessCurrency: " usd "}); got != USD {
		t.Fatalf("expected USD got %s", got)
	}
}

func TestTableWith(t *testing.T) {
	table, err := DefaultTable().With(Entry{Code: "eur", Symbol: "€", Name: "Euro"})
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	entry, ok := table.Lookup("EUR")
	if !ok || entry.Symbol != "€" {
		t.Fatalf("expected EUR entry got %+v", entry)
	}
	if len(table.Entries()) != 3 {
		t.Fatalf("expected 3 entries got %d", len(table.Entries()))
	}
	if _, err := DefaultTable().With(Entry{Code: "XYZW"}); err == nil {
		t.Fatalf("expected invalid code to be rejected")
	}
}
