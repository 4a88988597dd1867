package theme

import "testing"

func TestByNameFallsBack(t *testing.T) {
	if got := ByName("tokyo-night"); got.Name != "tokyo-night" {
		t.Fatalf("ByName(tokyo-night) = %s", got.Name)
	}
	if got := ByName("nope"); got.Name != FlexokiDark.Name {
		t.Fatalf("ByName(nope) = %s, want fallback", got.Name)
	}
}

func TestThemesCarryPalettes(t *testing.T) {
	for _, th := range All {
		if len(th.Palette) == 0 {
			t.Errorf("%s has no palette", th.Name)
		}
		if th.Track == "" {
			t.Errorf("%s has no track color", th.Name)
		}
	}
	if len(Names()) != len(All) {
		t.Fatal("Names length mismatch")
	}
}
