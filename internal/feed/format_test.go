package feed

import (
	"strings"
	"testing"
)

func TestFormatKill(t *testing.T) {
	n := Format(Kill{
		Base:        Base{Time: "14:02:07"},
		Victim:      "Bob",
		Killer:      "Ann",
		Weapon:      "M4A1",
		Distance:    87.4,
		HasDistance: true,
	})
	if n.Color != colorKill {
		t.Errorf("color = %#x", n.Color)
	}
	for _, want := range []string{"**Ann**", "**Bob**", "**M4A1**", "87.4 m", "14:02:07"} {
		if !strings.Contains(n.Body, want) {
			t.Errorf("body %q missing %q", n.Body, want)
		}
	}
}

func TestFormatKillWithoutDistance(t *testing.T) {
	n := Format(Kill{Base: Base{Time: "14:02:07"}, Victim: "Bob", Killer: "Ann", Weapon: "M4A1"})
	if strings.Contains(n.Body, " m**") {
		t.Errorf("body %q mentions a distance the event lacks", n.Body)
	}
}

func TestFormatIsDeterministic(t *testing.T) {
	ev := Suicide{Base: Base{Time: "03:00:00"}, Player: "Sad"}
	a, b := Format(ev), Format(ev)
	if a != b {
		t.Errorf("same event formatted differently: %+v vs %+v", a, b)
	}
}

func TestFormatConnectionColors(t *testing.T) {
	on := Format(Connection{Base: Base{Time: "11:00:00"}, Player: "Ann", Connected: true})
	off := Format(Connection{Base: Base{Time: "11:45:00"}, Player: "Ann"})
	if on.Color == off.Color {
		t.Error("connect and disconnect should differ visually")
	}
	if !strings.Contains(on.Body, "connected") || !strings.Contains(off.Body, "disconnected") {
		t.Errorf("bodies: %q / %q", on.Body, off.Body)
	}
}

func TestFormatEnvironmentalHit(t *testing.T) {
	n := Format(Hit{Base: Base{Time: "10:00:02"}, Victim: "Bob", Environmental: true, Source: "FallDamageHealth"})
	if !strings.Contains(n.Body, "FallDamageHealth") {
		t.Errorf("body %q missing source", n.Body)
	}
	if strings.Contains(n.Body, "with") {
		t.Errorf("body %q mentions a weapon the event lacks", n.Body)
	}
}
