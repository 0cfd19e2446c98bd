package feed

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/HandsOfHimeros/Cupids-Killfeed-sub001/internal/tracker"
)

// Line shapes, tried in a fixed priority order: kill, hit, suicide,
// connect/disconnect, build. First match wins. Each matcher returns nil when
// the line is not its shape; ParseLine returns nil for lines nothing
// recognizes (ordinary server chatter), which is not an error.
//
// The id parenthetical after a player name often carries a world position
// (id=XYZ pos=<x, z, y>); it is extracted opportunistically wherever present.
var (
	killPattern = regexp.MustCompile(
		`^(\d{2}:\d{2}:\d{2}) \| Player "([^"]+)"\s*\(([^)]*)\) killed by Player "([^"]+)"\s*\(([^)]*)\) with (.+?)(?: from ([0-9.]+) meters)?$`)

	playerHitPattern = regexp.MustCompile(
		`^(\d{2}:\d{2}:\d{2}) \| Player "([^"]+)"\s*\(([^)]*)\).*[Ss]truck by: Player "([^"]+)"\s*\(([^)]*)\) into (\w+) for ([0-9.]+) damage \(([^)]+)\) with (.+?) from ([0-9.]+) meters$`)

	envHitPattern = regexp.MustCompile(
		`^(\d{2}:\d{2}:\d{2}) \| Player "([^"]+)"\s*\(([^)]*)\).*[Ss]truck by: (.+?)(?: with (.+))?$`)

	suicidePattern = regexp.MustCompile(
		`^(\d{2}:\d{2}:\d{2}) \| Player "([^"]+)"\s*\(([^)]*)\) committed suicide`)

	connectionPattern = regexp.MustCompile(
		`^(\d{2}:\d{2}:\d{2}) \| Player "([^"]+)"\s*\(([^)]*)\) has been (connected|disconnected)$`)

	buildPattern = regexp.MustCompile(
		`^(\d{2}:\d{2}:\d{2}) \| Player "([^"]+)"\s*\(([^)]*)\) (?i:(placed|raised|dismantled|built)) (.+?)(?: at position .+)?$`)

	posPattern = regexp.MustCompile(
		`pos=<\s*(-?[0-9.]+),\s*(-?[0-9.]+),\s*(-?[0-9.]+)\s*>`)
)

type matcher func(line string) Event

// Matchers in priority order. Hit must run before suicide and connection so
// a line mentioning both shapes resolves to the earlier one.
var matchers = []matcher{
	matchKill,
	matchHit,
	matchSuicide,
	matchConnection,
	matchBuild,
}

// ParseLine maps one raw log line to an Event, or nil if no shape matches.
// Pure and total: malformed input never panics.
func ParseLine(line string) Event {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	for _, m := range matchers {
		if ev := m(line); ev != nil {
			return ev
		}
	}
	return nil
}

func matchKill(line string) Event {
	m := killPattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	ev := Kill{
		Base:      Base{Time: m[1], Raw: line},
		Victim:    m[2],
		VictimPos: parsePos(m[3]),
		Killer:    m[4],
		KillerPos: parsePos(m[5]),
		Weapon:    strings.TrimSpace(m[6]),
	}
	if m[7] != "" {
		if d, err := strconv.ParseFloat(m[7], 64); err == nil {
			ev.Distance = d
			ev.HasDistance = true
		}
	}
	return ev
}

func matchHit(line string) Event {
	// Disambiguation rule: what follows "Struck by: " decides the sub-form.
	// Only the literal token `Player "` selects the player-caused shape.
	idx := strings.Index(line, "Struck by: ")
	if idx == -1 {
		idx = strings.Index(line, "struck by: ")
	}
	if idx == -1 {
		return nil
	}
	after := line[idx+len("Struck by: "):]

	if strings.HasPrefix(after, `Player "`) {
		m := playerHitPattern.FindStringSubmatch(line)
		if m == nil {
			return nil
		}
		dmg, _ := strconv.ParseFloat(m[7], 64)
		dist, _ := strconv.ParseFloat(m[10], 64)
		return Hit{
			Base:        Base{Time: m[1], Raw: line},
			Victim:      m[2],
			VictimPos:   parsePos(m[3]),
			Attacker:    m[4],
			AttackerPos: parsePos(m[5]),
			BodyPart:    m[6],
			Damage:      dmg,
			DmgType:     m[8],
			Weapon:      strings.TrimSpace(m[9]),
			Distance:    int(math.Round(dist)),
		}
	}

	m := envHitPattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return Hit{
		Base:          Base{Time: m[1], Raw: line},
		Victim:        m[2],
		VictimPos:     parsePos(m[3]),
		Environmental: true,
		Source:        strings.TrimSpace(m[4]),
		Weapon:        strings.TrimSpace(m[5]),
	}
}

func matchSuicide(line string) Event {
	m := suicidePattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return Suicide{
		Base:   Base{Time: m[1], Raw: line},
		Player: m[2],
		Pos:    parsePos(m[3]),
	}
}

func matchConnection(line string) Event {
	m := connectionPattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return Connection{
		Base:      Base{Time: m[1], Raw: line},
		Player:    m[2],
		Pos:       parsePos(m[3]),
		Connected: m[4] == "connected",
	}
}

func matchBuild(line string) Event {
	m := buildPattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	action := strings.ToLower(m[4])
	return Build{
		Base:      Base{Time: m[1], Raw: line},
		Player:    m[2],
		Pos:       parsePos(m[3]),
		Action:    action,
		Item:      strings.TrimSpace(m[5]),
		Dismantle: action == "dismantled",
	}
}

// parsePos extracts a pos=<x, z, y> coordinate from an id parenthetical.
// Returns nil when the line carries no position.
func parsePos(idBlock string) *tracker.Position {
	m := posPattern.FindStringSubmatch(idBlock)
	if m == nil {
		return nil
	}
	x, err1 := strconv.ParseFloat(m[1], 64)
	z, err2 := strconv.ParseFloat(m[2], 64)
	y, err3 := strconv.ParseFloat(m[3], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return nil
	}
	return &tracker.Position{X: x, Z: z, Y: y}
}
