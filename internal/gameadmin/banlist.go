// Package gameadmin talks to the game server's administrative surface. The
// hosting provider exposes no ban RPC, only the banlist file next to the
// logs, so banning is a read-modify-write of that file.
package gameadmin

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/HandsOfHimeros/Cupids-Killfeed-sub001/internal/remote"
)

// Banner issues ban requests for players.
type Banner interface {
	BanPlayer(ctx context.Context, identifier, reason string) error
}

// BanlistBanner appends identifiers to the server banlist file through a
// remote.Source. Idempotent: an identifier already present is not added
// twice.
type BanlistBanner struct {
	source remote.Source
	path   string
}

func NewBanlistBanner(source remote.Source, banlistPath string) *BanlistBanner {
	return &BanlistBanner{source: source, path: banlistPath}
}

func (b *BanlistBanner) BanPlayer(ctx context.Context, identifier, reason string) error {
	if b.path == "" {
		return fmt.Errorf("no banlist path configured")
	}
	if identifier == "" {
		return fmt.Errorf("empty ban identifier")
	}

	raw, err := b.source.Download(ctx, b.path)
	if err != nil {
		// A missing banlist is a fresh one; any other failure aborts so a
		// partial read can never clobber existing entries.
		if !isNotFound(err) {
			return fmt.Errorf("failed to download banlist: %w", err)
		}
		raw = nil
	}

	lines := remote.DecodeLines(raw)
	for _, line := range lines {
		if strings.EqualFold(strings.TrimSpace(line), identifier) {
			log.Printf("Ban skipped: %s already on banlist", identifier)
			return nil
		}
	}

	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString(identifier)
	sb.WriteString("\n")

	if err := b.source.Upload(ctx, b.path, []byte(sb.String())); err != nil {
		return fmt.Errorf("failed to upload banlist: %w", err)
	}

	log.Printf("Banned %s (%s)", identifier, reason)
	return nil
}

func isNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such file") ||
		strings.Contains(msg, "not found") ||
		strings.Contains(msg, "550") // FTP "file unavailable"
}
