// Package tracker keeps the last known world position of each player and the
// distance they have covered since connecting. Positions arrive as a side
// channel of the log lines themselves (the id parenthetical of admin log
// entries carries pos=<x, z, y> on most movement-relevant events).
package tracker

import (
	"math"
	"sync"
	"time"
)

// Position is a world coordinate. Zone geometry only uses X and Z; Y is the
// height component and is carried for display.
type Position struct {
	X float64
	Y float64
	Z float64
}

type sample struct {
	pos       Position
	at        time.Time
	travelled float64
}

// Tracker accumulates position samples per guild and player name.
type Tracker struct {
	mu      sync.RWMutex
	samples map[string]map[string]*sample // guildID -> player -> latest
}

func New() *Tracker {
	return &Tracker{samples: make(map[string]map[string]*sample)}
}

// Record stores a position sample and accumulates travel distance from
// the previous sample, if any.
func (t *Tracker) Record(guildID, playerName string, pos Position) {
	t.mu.Lock()
	defer t.mu.Unlock()

	guild, ok := t.samples[guildID]
	if !ok {
		guild = make(map[string]*sample)
		t.samples[guildID] = guild
	}

	prev, ok := guild[playerName]
	if !ok {
		guild[playerName] = &sample{pos: pos, at: time.Now()}
		return
	}

	prev.travelled += distance2D(prev.pos, pos)
	prev.pos = pos
	prev.at = time.Now()
}

// LastKnown returns the most recent position for the player, if any.
func (t *Tracker) LastKnown(guildID, playerName string) (Position, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if guild, ok := t.samples[guildID]; ok {
		if s, ok := guild[playerName]; ok {
			return s.pos, true
		}
	}
	return Position{}, false
}

// Travelled returns the distance in meters accumulated since the player's
// first sample (normally their connect).
func (t *Tracker) Travelled(guildID, playerName string) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if guild, ok := t.samples[guildID]; ok {
		if s, ok := guild[playerName]; ok {
			return s.travelled
		}
	}
	return 0
}

// Reset forgets the player's samples. Called on disconnect so the next
// session starts a fresh distance count.
func (t *Tracker) Reset(guildID, playerName string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if guild, ok := t.samples[guildID]; ok {
		delete(guild, playerName)
	}
}

func distance2D(a, b Position) float64 {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dz*dz)
}
