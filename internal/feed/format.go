package feed

import (
	"fmt"

	"github.com/HandsOfHimeros/Cupids-Killfeed-sub001/internal/discord"
)

// Embed colors per event kind.
const (
	colorKill       = 0xE74C3C
	colorHit        = 0xE67E22
	colorSuicide    = 0x992D22
	colorConnect    = 0x2ECC71
	colorDisconnect = 0x95A5A6
	colorBuild      = 0x3498DB
	colorBounty     = 0xF1C40F
)

// Format renders an event into a notification. It is pure: the same event
// always yields the same title, body and color. The dispatcher stamps the
// send time.
func Format(ev Event) discord.Notification {
	switch e := ev.(type) {
	case Kill:
		body := fmt.Sprintf("**%s** killed **%s** with **%s**", e.Killer, e.Victim, e.Weapon)
		if e.HasDistance {
			body += fmt.Sprintf(" from **%.1f m**", e.Distance)
		}
		return discord.Notification{
			Title: "💀 Kill",
			Body:  body + timeSuffix(e),
			Color: colorKill,
		}
	case Hit:
		if e.Environmental {
			body := fmt.Sprintf("**%s** was struck by **%s**", e.Victim, e.Source)
			if e.Weapon != "" {
				body += fmt.Sprintf(" with **%s**", e.Weapon)
			}
			return discord.Notification{
				Title: "Hit",
				Body:  body + timeSuffix(e),
				Color: colorHit,
			}
		}
		body := fmt.Sprintf("**%s** hit **%s** into **%s** for **%.1f** damage (%s) with **%s** from **%d m**",
			e.Attacker, e.Victim, e.BodyPart, e.Damage, e.DmgType, e.Weapon, e.Distance)
		return discord.Notification{
			Title: "Hit",
			Body:  body + timeSuffix(e),
			Color: colorHit,
		}
	case Suicide:
		return discord.Notification{
			Title: "Suicide",
			Body:  fmt.Sprintf("**%s** committed suicide", e.Player) + timeSuffix(e),
			Color: colorSuicide,
		}
	case Connection:
		if e.Connected {
			return discord.Notification{
				Title: "Connected",
				Body:  fmt.Sprintf("**%s** connected", e.Player) + timeSuffix(e),
				Color: colorConnect,
			}
		}
		return discord.Notification{
			Title: "Disconnected",
			Body:  fmt.Sprintf("**%s** disconnected", e.Player) + timeSuffix(e),
			Color: colorDisconnect,
		}
	case Build:
		verb := e.Action
		if verb == "" {
			verb = "placed"
		}
		return discord.Notification{
			Title: "Build",
			Body:  fmt.Sprintf("**%s** %s **%s**", e.Player, verb, e.Item) + timeSuffix(e),
			Color: colorBuild,
		}
	default:
		return discord.Notification{
			Title: "Event",
			Body:  ev.RawLine(),
			Color: colorDisconnect,
		}
	}
}

// FormatBountyClaim renders the payout notice sent when a kill claims an
// active bounty.
func FormatBountyClaim(killer, victim string, amount int64) discord.Notification {
	return discord.Notification{
		Title: "💰 Bounty claimed",
		Body:  fmt.Sprintf("**%s** claimed the **%d** bounty on **%s**", killer, amount, victim),
		Color: colorBounty,
	}
}

func timeSuffix(ev Event) string {
	if ev.TimeOfDay() == "" {
		return ""
	}
	return fmt.Sprintf("\n`%s` server time", ev.TimeOfDay())
}
