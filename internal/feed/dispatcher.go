package feed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/HandsOfHimeros/Cupids-Killfeed-sub001/internal/discord"
	"github.com/HandsOfHimeros/Cupids-Killfeed-sub001/internal/gameadmin"
	"github.com/HandsOfHimeros/Cupids-Killfeed-sub001/internal/storage"
	"github.com/HandsOfHimeros/Cupids-Killfeed-sub001/internal/tracker"
)

// Dispatcher fans one event out to its effects: channel notifications, stat
// counters, bounty claims, auto-bans, position tracking. Effects are
// independent; a failing effect is logged and never blocks its siblings, and
// Dispatch itself never returns an error or panics outward.
type Dispatcher struct {
	sink     discord.Sink
	bounties storage.BountyRepository
	stats    storage.StatsRepository
	tracker  *tracker.Tracker
}

func NewDispatcher(sink discord.Sink, bounties storage.BountyRepository, stats storage.StatsRepository, tr *tracker.Tracker) *Dispatcher {
	return &Dispatcher{sink: sink, bounties: bounties, stats: stats, tracker: tr}
}

func (d *Dispatcher) Dispatch(ctx context.Context, cfg *storage.GuildConfig, zones []*storage.Zone, banner gameadmin.Banner, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC dispatching %s event for guild %s: %v", ev.Kind(), cfg.GuildID, r)
		}
	}()

	d.recordPositions(cfg.GuildID, ev)

	switch e := ev.(type) {
	case Kill:
		d.notify(cfg.GuildID, cfg.KillfeedChannelID, ev)
		if err := d.stats.RecordKill(cfg.GuildID, e.Killer, e.Victim); err != nil {
			log.Printf("ERROR recording kill stats for guild %s: %v", cfg.GuildID, err)
		}
		d.autoBan(ctx, cfg, zones, banner, e)
		d.claimBounties(cfg, e)
	case Hit:
		d.notify(cfg.GuildID, cfg.KillfeedChannelID, ev)
	case Suicide:
		d.notify(cfg.GuildID, cfg.KillfeedChannelID, ev)
		if err := d.stats.RecordSuicide(cfg.GuildID, e.Player); err != nil {
			log.Printf("ERROR recording suicide stats for guild %s: %v", cfg.GuildID, err)
		}
	case Connection:
		if e.Connected {
			d.notify(cfg.GuildID, cfg.ConnectionChannelID, ev)
		} else {
			d.notifyDisconnect(cfg, e)
			d.tracker.Reset(cfg.GuildID, e.Player)
		}
	case Build:
		channel := cfg.BuildLogChannelID
		if channel == "" {
			channel = cfg.KillfeedChannelID
		}
		d.notify(cfg.GuildID, channel, ev)
	}
}

func (d *Dispatcher) notify(guildID, channelID string, ev Event) {
	if channelID == "" {
		return
	}
	n := Format(ev)
	n.Timestamp = time.Now()
	if err := d.sink.SendMessage(channelID, n); err != nil {
		log.Printf("ERROR sending %s notification for guild %s: %v", ev.Kind(), guildID, err)
	}
}

// notifyDisconnect appends the session's travelled distance when the tracker
// has one for the departing player.
func (d *Dispatcher) notifyDisconnect(cfg *storage.GuildConfig, e Connection) {
	if cfg.ConnectionChannelID == "" {
		return
	}
	n := Format(e)
	if dist := d.tracker.Travelled(cfg.GuildID, e.Player); dist > 0 {
		n.Body += fmt.Sprintf("\ntravelled **%.0f m** this session", dist)
	}
	n.Timestamp = time.Now()
	if err := d.sink.SendMessage(cfg.ConnectionChannelID, n); err != nil {
		log.Printf("ERROR sending disconnect notification for guild %s: %v", cfg.GuildID, err)
	}
}

// autoBan bans the killer when the guild opted in. The kill site decides:
// a kill with no known position is never banned (a wrong ban is worse than a
// missed one), a kill inside a pvp zone is sanctioned play, and kills inside
// safe zones follow the guild's AutoBanInSafeZones setting.
func (d *Dispatcher) autoBan(ctx context.Context, cfg *storage.GuildConfig, zones []*storage.Zone, banner gameadmin.Banner, e Kill) {
	if !cfg.AutoBanOnKill || banner == nil {
		return
	}

	pos := e.VictimPos
	if pos == nil {
		if p, ok := d.tracker.LastKnown(cfg.GuildID, e.Victim); ok {
			pos = &p
		}
	}
	if pos == nil {
		log.Printf("WARN skipping auto-ban for guild %s: no known position for kill of %q", cfg.GuildID, e.Victim)
		return
	}
	if InAnyZone(zones, storage.ZoneKindPVP, *pos) {
		return
	}
	if InAnyZone(zones, storage.ZoneKindSafe, *pos) && !cfg.AutoBanInSafeZones {
		return
	}

	if err := banner.BanPlayer(ctx, e.Killer, "killfeed auto-ban: killed "+e.Victim); err != nil {
		log.Printf("ERROR auto-banning %q in guild %s: %v", e.Killer, cfg.GuildID, err)
		return
	}
	log.Printf("INFO auto-banned %q in guild %s for killing %q", e.Killer, cfg.GuildID, e.Victim)
}

// claimBounties pays out any active bounty on the victim. Claim is guarded
// server-side, so a replayed kill line cannot pay twice.
func (d *Dispatcher) claimBounties(cfg *storage.GuildConfig, e Kill) {
	open, err := d.bounties.ActiveForTarget(cfg.GuildID, e.Victim)
	if err != nil {
		log.Printf("ERROR looking up bounties on %q for guild %s: %v", e.Victim, cfg.GuildID, err)
		return
	}
	for _, b := range open {
		if err := d.bounties.Claim(b.ID, e.Killer); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			log.Printf("ERROR claiming bounty %d for guild %s: %v", b.ID, cfg.GuildID, err)
			continue
		}
		if cfg.KillfeedChannelID != "" {
			n := FormatBountyClaim(e.Killer, e.Victim, b.Amount)
			n.Timestamp = time.Now()
			if err := d.sink.SendMessage(cfg.KillfeedChannelID, n); err != nil {
				log.Printf("ERROR sending bounty notification for guild %s: %v", cfg.GuildID, err)
			}
		}
	}
}

// recordPositions feeds every position the line revealed into the movement
// tracker before any effect consults it.
func (d *Dispatcher) recordPositions(guildID string, ev Event) {
	switch e := ev.(type) {
	case Kill:
		if e.VictimPos != nil {
			d.tracker.Record(guildID, e.Victim, *e.VictimPos)
		}
		if e.KillerPos != nil {
			d.tracker.Record(guildID, e.Killer, *e.KillerPos)
		}
	case Hit:
		if e.VictimPos != nil {
			d.tracker.Record(guildID, e.Victim, *e.VictimPos)
		}
		if !e.Environmental && e.AttackerPos != nil {
			d.tracker.Record(guildID, e.Attacker, *e.AttackerPos)
		}
	case Suicide:
		if e.Pos != nil {
			d.tracker.Record(guildID, e.Player, *e.Pos)
		}
	case Connection:
		if e.Pos != nil {
			d.tracker.Record(guildID, e.Player, *e.Pos)
		}
	case Build:
		if e.Pos != nil {
			d.tracker.Record(guildID, e.Player, *e.Pos)
		}
	}
}
