package feed

import (
	"github.com/HandsOfHimeros/Cupids-Killfeed-sub001/internal/tracker"
)

// Kind identifies the variant of a parsed Event.
type Kind string

const (
	KindKill            Kind = "kill"
	KindHit             Kind = "hit"
	KindSuicide         Kind = "suicide"
	KindConnected       Kind = "connected"
	KindDisconnected    Kind = "disconnected"
	KindBuildPlaced     Kind = "build_placed"
	KindBuildDismantled Kind = "build_dismantled"
)

// Event is one typed occurrence parsed from a single log line. Events are
// ephemeral: produced by ParseLine, consumed once by the dispatcher, then
// discarded. Persistence of their effects (claimed bounties, counters) is
// the effect's own job.
type Event interface {
	Kind() Kind
	// TimeOfDay is the HH:MM:SS stamp as recorded in the log; there is no
	// date component.
	TimeOfDay() string
	// RawLine is the unmodified source line, kept for diagnostics.
	RawLine() string
}

// Base carries the fields common to every event variant.
type Base struct {
	Time string
	Raw  string
}

func (b Base) TimeOfDay() string { return b.Time }
func (b Base) RawLine() string   { return b.Raw }

// Kill is a player killed by another player.
type Kill struct {
	Base
	Victim string
	Killer string
	Weapon string

	// Distance in meters, when the line carries one.
	Distance    float64
	HasDistance bool

	VictimPos *tracker.Position
	KillerPos *tracker.Position
}

func (Kill) Kind() Kind { return KindKill }

// Hit is a non-lethal strike. Environmental hits (fall damage, fire, zombie
// swarm labels) have Environmental=true and carry the raw source label
// instead of an attacker name.
type Hit struct {
	Base
	Victim string

	Attacker string
	BodyPart string
	Damage   float64
	DmgType  string
	Weapon   string
	// Distance rounded to the nearest meter.
	Distance int

	Environmental bool
	Source        string

	VictimPos   *tracker.Position
	AttackerPos *tracker.Position
}

func (Hit) Kind() Kind { return KindHit }

// Suicide is a self-inflicted death.
type Suicide struct {
	Base
	Player string
	Pos    *tracker.Position
}

func (Suicide) Kind() Kind { return KindSuicide }

// Connection is a player joining or leaving the server.
type Connection struct {
	Base
	Player    string
	Connected bool
	Pos       *tracker.Position
}

func (c Connection) Kind() Kind {
	if c.Connected {
		return KindConnected
	}
	return KindDisconnected
}

// Build is a base-building action.
type Build struct {
	Base
	Player    string
	Action    string // placed | raised | built | dismantled (as logged, lowercased)
	Item      string
	Dismantle bool
	Pos       *tracker.Position
}

func (b Build) Kind() Kind {
	if b.Dismantle {
		return KindBuildDismantled
	}
	return KindBuildPlaced
}
