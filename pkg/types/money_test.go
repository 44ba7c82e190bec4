package types

import "testing"

func TestRublesToKopecks(t *testing.T) {
	if got := Rubles(1290).ToKopecks(); got != Kopecks(129000) {
		t.Fatalf("expected 129000 kopecks, got %d", got)
	}
	if got := Rubles(0).ToKopecks(); got != Kopecks(0) {
		t.Fatalf("expected zero kopecks, got %d", got)
	}
}

func TestRublesDecimalString(t *testing.T) {
	cases := map[Rubles]string{
		0:    "0.00",
		7:    "7.00",
		1290: "1290.00",
	}
	for amount, want := range cases {
		if got := amount.DecimalString(); got != want {
			t.Fatalf("amount %d: expected %q, got %q", amount, want, got)
		}
	}
}
