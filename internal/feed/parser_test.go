package feed

import (
	"testing"
)

func TestParseKill(t *testing.T) {
	line := `14:02:07 | Player "Bob"(id=xyz) killed by Player "Ann"(id=abc) with M4A1`
	ev := ParseLine(line)
	kill, ok := ev.(Kill)
	if !ok {
		t.Fatalf("expected Kill, got %T", ev)
	}
	if kill.Victim != "Bob" || kill.Killer != "Ann" || kill.Weapon != "M4A1" {
		t.Errorf("unexpected fields: %+v", kill)
	}
	if kill.HasDistance {
		t.Errorf("line has no distance, got %v", kill.Distance)
	}
	if kill.TimeOfDay() != "14:02:07" {
		t.Errorf("time = %q", kill.TimeOfDay())
	}
	if kill.RawLine() != line {
		t.Errorf("raw line not preserved")
	}
}

func TestParseKillWithDistanceAndPosition(t *testing.T) {
	line := `09:15:33 | Player "Bob"(id=xyz pos=<4501.2, 8130.9, 12.5>) killed by Player "Ann"(id=abc pos=<4520.0, 8100.0, 11.0>) with Mosin 91/30 from 87.4 meters`
	ev := ParseLine(line)
	kill, ok := ev.(Kill)
	if !ok {
		t.Fatalf("expected Kill, got %T", ev)
	}
	if !kill.HasDistance || kill.Distance != 87.4 {
		t.Errorf("distance = %v (has=%v)", kill.Distance, kill.HasDistance)
	}
	if kill.Weapon != "Mosin 91/30" {
		t.Errorf("weapon = %q", kill.Weapon)
	}
	if kill.VictimPos == nil || kill.VictimPos.X != 4501.2 || kill.VictimPos.Z != 8130.9 || kill.VictimPos.Y != 12.5 {
		t.Errorf("victim pos = %+v", kill.VictimPos)
	}
	if kill.KillerPos == nil || kill.KillerPos.X != 4520.0 {
		t.Errorf("killer pos = %+v", kill.KillerPos)
	}
}

func TestParseHitByPlayer(t *testing.T) {
	line := `10:00:01 | Player "Bob"(id=xyz) hit by Player. Struck by: Player "Ann"(id=abc) into Torso for 35.5 damage (Bullet) with M4A1 from 51.6 meters`
	ev := ParseLine(line)
	hit, ok := ev.(Hit)
	if !ok {
		t.Fatalf("expected Hit, got %T", ev)
	}
	if hit.Environmental {
		t.Fatal("player hit flagged environmental")
	}
	if hit.Attacker != "Ann" || hit.Victim != "Bob" || hit.BodyPart != "Torso" {
		t.Errorf("unexpected fields: %+v", hit)
	}
	if hit.Damage != 35.5 || hit.DmgType != "Bullet" || hit.Weapon != "M4A1" {
		t.Errorf("unexpected fields: %+v", hit)
	}
	if hit.Distance != 52 {
		t.Errorf("distance rounded = %d, want 52", hit.Distance)
	}
}

func TestParseHitEnvironmental(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		source string
		weapon string
	}{
		{
			name:   "fall damage",
			line:   `10:00:02 | Player "Bob"(id=xyz) hit by FallDamage. Struck by: FallDamageHealth`,
			source: "FallDamageHealth",
		},
		{
			name:   "infected with weapon",
			line:   `10:00:03 | Player "Bob"(id=xyz) hit by Infected. Struck by: Infected with Claws`,
			source: "Infected",
			weapon: "Claws",
		},
		{
			// The attacker label begins with "Player" but is not the quoted
			// player token, so it stays environmental.
			name:   "playerlike label",
			line:   `10:00:04 | Player "Bob"(id=xyz) hit by trap. Struck by: PlayerTrap`,
			source: "PlayerTrap",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := ParseLine(tt.line)
			hit, ok := ev.(Hit)
			if !ok {
				t.Fatalf("expected Hit, got %T", ev)
			}
			if !hit.Environmental {
				t.Fatal("expected environmental hit")
			}
			if hit.Source != tt.source {
				t.Errorf("source = %q, want %q", hit.Source, tt.source)
			}
			if hit.Weapon != tt.weapon {
				t.Errorf("weapon = %q, want %q", hit.Weapon, tt.weapon)
			}
		})
	}
}

func TestParseSuicide(t *testing.T) {
	line := `03:12:45 | Player "Sad"(id=abc pos=<100.0, 200.0, 3.0>) committed suicide`
	ev := ParseLine(line)
	s, ok := ev.(Suicide)
	if !ok {
		t.Fatalf("expected Suicide, got %T", ev)
	}
	if s.Player != "Sad" {
		t.Errorf("player = %q", s.Player)
	}
	if s.Pos == nil || s.Pos.X != 100.0 || s.Pos.Z != 200.0 {
		t.Errorf("pos = %+v", s.Pos)
	}
}

func TestParseConnection(t *testing.T) {
	conn := ParseLine(`11:00:00 | Player "Ann"(id=abc) has been connected`)
	c, ok := conn.(Connection)
	if !ok || !c.Connected || c.Kind() != KindConnected {
		t.Fatalf("connected parse failed: %#v", conn)
	}
	disc := ParseLine(`11:45:00 | Player "Ann"(id=abc) has been disconnected`)
	d, ok := disc.(Connection)
	if !ok || d.Connected || d.Kind() != KindDisconnected {
		t.Fatalf("disconnected parse failed: %#v", disc)
	}
}

func TestParseBuild(t *testing.T) {
	placed := ParseLine(`12:30:00 | Player "Ann"(id=abc) placed Fence Kit at position <1, 2, 3>`)
	b, ok := placed.(Build)
	if !ok || b.Dismantle || b.Item != "Fence Kit" || b.Kind() != KindBuildPlaced {
		t.Fatalf("placed parse failed: %#v", placed)
	}
	torn := ParseLine(`12:45:00 | Player "Bob"(id=xyz) Dismantled Watchtower`)
	d, ok := torn.(Build)
	if !ok || !d.Dismantle || d.Item != "Watchtower" || d.Kind() != KindBuildDismantled {
		t.Fatalf("dismantled parse failed: %#v", torn)
	}
}

func TestParseLineUnrecognized(t *testing.T) {
	lines := []string{
		"",
		"   ",
		"AdminLog started on 2026-08-01 at 00:00:01",
		`14:02:07 | Player "Bob"(id=xyz) is connected`,
		"##### Server restarted #####",
	}
	for _, line := range lines {
		if ev := ParseLine(line); ev != nil {
			t.Errorf("ParseLine(%q) = %#v, want nil", line, ev)
		}
	}
}

func TestKillTakesPriorityOverHit(t *testing.T) {
	// A kill line never reaches the hit matcher even when it mentions a
	// weapon a hit line would also carry.
	line := `14:02:07 | Player "Bob"(id=xyz) killed by Player "Ann"(id=abc) with M4A1 from 10.0 meters`
	if _, ok := ParseLine(line).(Kill); !ok {
		t.Fatal("kill line did not resolve to Kill")
	}
}
