package feed

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/HandsOfHimeros/Cupids-Killfeed-sub001/internal/gameadmin"
	"github.com/HandsOfHimeros/Cupids-Killfeed-sub001/internal/remote"
	"github.com/HandsOfHimeros/Cupids-Killfeed-sub001/internal/storage"
)

// reconcileInterval is how often the engine re-reads the guild table to pick
// up newly enabled or disabled feeds.
const reconcileInterval = 30 * time.Second

// Options tune the engine; zero values fall back to defaults.
type Options struct {
	// PollInterval applies to guilds whose config does not set one.
	PollInterval time.Duration
	// RemoteTimeout bounds one remote list or download.
	RemoteTimeout time.Duration
	// MaxTransfers caps concurrent remote transfers across all guilds; the
	// hosting providers rate-limit by account, not by server.
	MaxTransfers int
	// Dial opens a Source for a guild's credentials. Defaults to remote.Dial;
	// tests substitute a fake.
	Dial func(remote.Credentials) (remote.Source, error)
}

// Engine runs one poll loop per enabled guild. Each loop downloads the
// active log file, diffs it against the guild's cursor, parses the new lines
// in order and hands events to the dispatcher. A tick is transactional from
// the cursor's point of view: the cursor only advances after every new line
// of that tick has been dispatched, so a mid-tick crash replays lines rather
// than losing them.
type Engine struct {
	guilds     storage.GuildRepository
	zones      storage.ZoneRepository
	dispatcher *Dispatcher
	seen       *SeenCache

	dial          func(remote.Credentials) (remote.Source, error)
	transfers     chan struct{}
	pollInterval  time.Duration
	remoteTimeout time.Duration

	mu      sync.Mutex
	running map[string]*guildState
}

type guildState struct {
	cancel context.CancelFunc

	// tickMu guards single-in-flight ticks. A tick that would overlap the
	// previous one is skipped, not queued.
	tickMu sync.Mutex

	srcMu  sync.Mutex
	source remote.Source
	creds  remote.Credentials
}

func NewEngine(guilds storage.GuildRepository, zones storage.ZoneRepository, dispatcher *Dispatcher, seen *SeenCache, opts Options) *Engine {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 30 * time.Second
	}
	if opts.RemoteTimeout <= 0 {
		opts.RemoteTimeout = 60 * time.Second
	}
	if opts.MaxTransfers <= 0 {
		opts.MaxTransfers = 4
	}
	if opts.Dial == nil {
		opts.Dial = remote.Dial
	}
	return &Engine{
		guilds:        guilds,
		zones:         zones,
		dispatcher:    dispatcher,
		seen:          seen,
		dial:          opts.Dial,
		transfers:     make(chan struct{}, opts.MaxTransfers),
		pollInterval:  opts.PollInterval,
		remoteTimeout: opts.RemoteTimeout,
		running:       map[string]*guildState{},
	}
}

// Run blocks until ctx is cancelled, reconciling the set of per-guild loops
// against the guild table.
func (e *Engine) Run(ctx context.Context) {
	e.reconcile(ctx)

	ticker := time.NewTicker(reconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.stopAll()
			return
		case <-ticker.C:
			e.reconcile(ctx)
		}
	}
}

func (e *Engine) reconcile(ctx context.Context) {
	enabled, err := e.guilds.ListEnabled()
	if err != nil {
		log.Printf("ERROR listing enabled guilds: %v", err)
		return
	}

	want := make(map[string]*storage.GuildConfig, len(enabled))
	for _, cfg := range enabled {
		want[cfg.GuildID] = cfg
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for guildID, st := range e.running {
		if _, ok := want[guildID]; !ok {
			log.Printf("INFO feed stopped for guild %s", guildID)
			st.cancel()
			st.closeSource()
			delete(e.running, guildID)
		}
	}
	for guildID, cfg := range want {
		if _, ok := e.running[guildID]; ok {
			continue
		}
		gctx, cancel := context.WithCancel(ctx)
		st := &guildState{cancel: cancel}
		e.running[guildID] = st
		log.Printf("INFO feed started for guild %s", guildID)
		go e.runGuild(gctx, guildID, st, e.intervalFor(cfg))
	}
}

func (e *Engine) stopAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for guildID, st := range e.running {
		st.cancel()
		st.closeSource()
		delete(e.running, guildID)
	}
}

func (e *Engine) intervalFor(cfg *storage.GuildConfig) time.Duration {
	if cfg.PollIntervalSeconds > 0 {
		return time.Duration(cfg.PollIntervalSeconds) * time.Second
	}
	return e.pollInterval
}

func (e *Engine) runGuild(ctx context.Context, guildID string, st *guildState, interval time.Duration) {
	// Local sources get an fsnotify wake so development setups react to file
	// writes without waiting for the ticker.
	var wake <-chan struct{}
	if cfg, err := e.guilds.Get(guildID); err == nil && cfg.Protocol == "local" {
		if ch, err := remote.WatchDir(ctx, cfg.LogDirectory); err == nil {
			wake = ch
		} else {
			log.Printf("WARN watch on %s for guild %s unavailable: %v", cfg.LogDirectory, guildID, err)
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.tick(ctx, guildID, st)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.tick(ctx, guildID, st)
		case <-wake:
			e.tick(ctx, guildID, st)
		}
	}
}

// tick runs one poll cycle. Any failure leaves the cursor untouched and is
// retried wholesale on the next tick.
func (e *Engine) tick(ctx context.Context, guildID string, st *guildState) {
	if !st.tickMu.TryLock() {
		log.Printf("WARN tick for guild %s still in flight, skipping", guildID)
		return
	}
	defer st.tickMu.Unlock()

	runID := uuid.NewString()[:8]
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in tick %s for guild %s: %v", runID, guildID, r)
		}
	}()

	cfg, err := e.guilds.Get(guildID)
	if err != nil {
		log.Printf("ERROR tick %s guild %s: load config: %v", runID, guildID, err)
		return
	}
	if !cfg.KillfeedEnabled {
		return
	}
	if cfg.Protocol == "" || cfg.LogDirectory == "" {
		// Not an error: the guild just has not finished its remote setup.
		return
	}

	src, err := st.ensureSource(e.dial, credentialsFor(cfg))
	if err != nil {
		log.Printf("ERROR tick %s guild %s: connect: %v", runID, guildID, err)
		return
	}

	fileName, raw, err := e.fetchActive(ctx, src, cfg)
	if err != nil {
		log.Printf("ERROR tick %s guild %s: %v", runID, guildID, err)
		st.closeSource()
		return
	}
	if fileName == "" {
		return
	}

	lines := remote.DecodeLines(raw)
	prev := Cursor{FileName: cfg.ActiveFileName, LastLine: cfg.LastConsumedLine}
	diff := DiffCursor(prev, fileName, lines)
	if diff.Rotated && prev.FileName != "" {
		log.Printf("INFO tick %s guild %s: log rotated %s -> %s", runID, guildID, prev.FileName, fileName)
	}
	if diff.Rescan {
		log.Printf("WARN tick %s guild %s: cursor line missing from %s, rescanning whole file", runID, guildID, fileName)
	}
	if len(diff.NewLines) == 0 {
		return
	}

	zones, err := e.zones.ForGuild(guildID)
	if err != nil {
		log.Printf("ERROR tick %s guild %s: load zones: %v", runID, guildID, err)
		return
	}

	var banner gameadmin.Banner
	if cfg.BanlistPath != "" {
		banner = gameadmin.NewBanlistBanner(src, cfg.BanlistPath)
	}

	dispatched := 0
	for _, line := range diff.NewLines {
		key := SeenKey(guildID, line)
		if e.seen.Contains(key) {
			continue
		}
		if ev := ParseLine(line); ev != nil {
			e.dispatcher.Dispatch(ctx, cfg, zones, banner, ev)
			dispatched++
		}
		e.seen.Add(key)
	}

	if diff.Next != prev {
		if err := e.guilds.UpdateCursor(guildID, diff.Next.FileName, diff.Next.LastLine); err != nil {
			log.Printf("ERROR tick %s guild %s: persist cursor: %v", runID, guildID, err)
			return
		}
	}
	if dispatched > 0 {
		log.Printf("INFO tick %s guild %s: %d new lines, %d events", runID, guildID, len(diff.NewLines), dispatched)
	}
}

// fetchActive lists the log directory and downloads the active file: the
// lexicographically greatest name matching the guild's pattern, which for
// timestamp-named logs is the newest. Returns an empty name when the
// directory has no matching file yet.
func (e *Engine) fetchActive(ctx context.Context, src remote.Source, cfg *storage.GuildConfig) (string, []byte, error) {
	if err := e.acquireTransfer(ctx); err != nil {
		return "", nil, err
	}
	defer e.releaseTransfer()

	lctx, cancel := context.WithTimeout(ctx, e.remoteTimeout)
	defer cancel()

	files, err := src.List(lctx, cfg.LogDirectory)
	if err != nil {
		return "", nil, fmt.Errorf("list %s: %w", cfg.LogDirectory, err)
	}

	var names []string
	for _, f := range files {
		if matchesPattern(f.Name, cfg.FilePattern) {
			names = append(names, f.Name)
		}
	}
	if len(names) == 0 {
		return "", nil, nil
	}
	sort.Strings(names)
	active := names[len(names)-1]

	dctx, cancel := context.WithTimeout(ctx, e.remoteTimeout)
	defer cancel()

	raw, err := src.Download(dctx, joinRemote(cfg.LogDirectory, active))
	if err != nil {
		return "", nil, fmt.Errorf("download %s: %w", active, err)
	}
	return active, raw, nil
}

func (e *Engine) acquireTransfer(ctx context.Context) error {
	select {
	case e.transfers <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) releaseTransfer() { <-e.transfers }

func matchesPattern(name, pattern string) bool {
	if pattern == "" {
		return true
	}
	return strings.Contains(strings.ToUpper(name), strings.ToUpper(pattern))
}

func joinRemote(dir, name string) string {
	if dir == "" {
		return name
	}
	return strings.TrimRight(dir, "/") + "/" + name
}

func credentialsFor(cfg *storage.GuildConfig) remote.Credentials {
	return remote.Credentials{
		Protocol: cfg.Protocol,
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
	}
}

func (st *guildState) ensureSource(dial func(remote.Credentials) (remote.Source, error), creds remote.Credentials) (remote.Source, error) {
	st.srcMu.Lock()
	defer st.srcMu.Unlock()

	if st.source != nil && st.creds == creds {
		return st.source, nil
	}
	if st.source != nil {
		st.source.Close()
		st.source = nil
	}
	src, err := dial(creds)
	if err != nil {
		return nil, err
	}
	st.source = src
	st.creds = creds
	return src, nil
}

// closeSource discards the cached connection; after a transfer failure the
// next tick reconnects from scratch.
func (st *guildState) closeSource() {
	st.srcMu.Lock()
	defer st.srcMu.Unlock()
	if st.source != nil {
		st.source.Close()
		st.source = nil
	}
}
