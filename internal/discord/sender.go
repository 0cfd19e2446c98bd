// Package discord is the notification sink: it renders formatted feed
// notifications into embeds and delivers them through a shared discordgo
// session with pacing and bounded retry.
package discord

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Notification is a rendered event ready for delivery. Produced by the feed
// formatter; this package only decides how it looks on the wire.
type Notification struct {
	Title     string
	Body      string
	Color     int
	Timestamp time.Time
}

// Sink delivers notifications to a channel. The feed engine depends on this
// interface so tests can capture sends.
type Sink interface {
	SendMessage(channelID string, n Notification) error
}

// Sender is the discordgo-backed Sink. Sends are serialized with a fixed
// inter-message delay; the Discord API is shared by every guild's poll loop
// and unbounded fan-out would trip rate limits.
type Sender struct {
	session *discordgo.Session

	mu       sync.Mutex
	lastSend time.Time
	delay    time.Duration
	retries  int
}

func NewSender(session *discordgo.Session, delay time.Duration, retries int) *Sender {
	if retries <= 0 {
		retries = 3
	}
	return &Sender{session: session, delay: delay, retries: retries}
}

func (s *Sender) SendMessage(channelID string, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if wait := s.delay - time.Since(s.lastSend); wait > 0 {
		time.Sleep(wait)
	}

	embed := &discordgo.MessageEmbed{
		Title:       n.Title,
		Description: n.Body,
		Color:       n.Color,
	}
	if !n.Timestamp.IsZero() {
		embed.Timestamp = n.Timestamp.Format(time.RFC3339)
	}

	var err error
	for attempt := 0; attempt < s.retries; attempt++ {
		_, err = s.session.ChannelMessageSendEmbed(channelID, embed)
		if err == nil {
			s.lastSend = time.Now()
			return nil
		}
		log.Printf("Failed to send notification (attempt %d/%d): %v", attempt+1, s.retries, err)
		time.Sleep(time.Duration(attempt+1) * time.Second)
	}

	s.lastSend = time.Now()
	return fmt.Errorf("error sending notification after %d attempts: %w", s.retries, err)
}
