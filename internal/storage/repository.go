package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// GuildRepository provides guild configuration and cursor persistence.
type GuildRepository interface {
	Get(guildID string) (*GuildConfig, error)
	ListEnabled() ([]*GuildConfig, error)
	Save(cfg *GuildConfig) error
	// UpdateCursor updates only the cursor columns, leaving the rest of the
	// guild's configuration untouched.
	UpdateCursor(guildID, activeFileName, lastConsumedLine string) error
	Delete(guildID string) error
}

type ZoneRepository interface {
	ForGuild(guildID string) ([]*Zone, error)
	Create(zone *Zone) error
	Delete(id uint) error
}

type BountyRepository interface {
	ActiveForTarget(guildID, targetName string) ([]*Bounty, error)
	Place(bounty *Bounty) error
	// Claim marks the bounty claimed by the killer. Returns ErrNotFound if
	// the bounty is no longer active (already claimed by a concurrent cycle).
	Claim(id uint, claimedBy string) error
}

type StatsRepository interface {
	RecordKill(guildID, killerName, victimName string) error
	RecordSuicide(guildID, playerName string) error
	Get(guildID, playerName string) (*PlayerStats, error)
}

type guildRepo struct {
	db *gorm.DB
}

func NewGuildRepository(db *gorm.DB) GuildRepository {
	return &guildRepo{db: db}
}

func (r *guildRepo) Get(guildID string) (*GuildConfig, error) {
	var cfg GuildConfig
	err := r.db.Where("guild_id = ?", guildID).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *guildRepo) ListEnabled() ([]*GuildConfig, error) {
	var cfgs []*GuildConfig
	err := r.db.Where("killfeed_enabled = ?", true).Find(&cfgs).Error
	return cfgs, err
}

func (r *guildRepo) Save(cfg *GuildConfig) error {
	return r.db.Save(cfg).Error
}

func (r *guildRepo) UpdateCursor(guildID, activeFileName, lastConsumedLine string) error {
	res := r.db.Exec(
		"UPDATE guild_configs SET active_file_name = ?, last_consumed_line = ?, updated_at = ? WHERE guild_id = ?",
		activeFileName, lastConsumedLine, time.Now(), guildID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *guildRepo) Delete(guildID string) error {
	return r.db.Where("guild_id = ?", guildID).Delete(&GuildConfig{}).Error
}

type zoneRepo struct {
	db *gorm.DB
}

func NewZoneRepository(db *gorm.DB) ZoneRepository {
	return &zoneRepo{db: db}
}

func (r *zoneRepo) ForGuild(guildID string) ([]*Zone, error) {
	var zones []*Zone
	err := r.db.Where("guild_id = ?", guildID).Find(&zones).Error
	return zones, err
}

func (r *zoneRepo) Create(zone *Zone) error {
	return r.db.Create(zone).Error
}

func (r *zoneRepo) Delete(id uint) error {
	return r.db.Delete(&Zone{}, id).Error
}

type bountyRepo struct {
	db *gorm.DB
}

func NewBountyRepository(db *gorm.DB) BountyRepository {
	return &bountyRepo{db: db}
}

func (r *bountyRepo) ActiveForTarget(guildID, targetName string) ([]*Bounty, error) {
	var bounties []*Bounty
	err := r.db.Where("guild_id = ? AND target_name = ? AND active = ?", guildID, targetName, true).
		Find(&bounties).Error
	return bounties, err
}

func (r *bountyRepo) Place(bounty *Bounty) error {
	return r.db.Create(bounty).Error
}

func (r *bountyRepo) Claim(id uint, claimedBy string) error {
	now := time.Now()
	res := r.db.Model(&Bounty{}).
		Where("id = ? AND active = ?", id, true).
		Updates(map[string]interface{}{
			"active":     false,
			"claimed_by": claimedBy,
			"claimed_at": &now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type statsRepo struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepo{db: db}
}

func (r *statsRepo) RecordKill(guildID, killerName, victimName string) error {
	if err := r.db.Exec(
		`INSERT INTO player_stats (guild_id, player_name, kills, deaths, suicides, updated_at)
		 VALUES (?, ?, 1, 0, 0, ?)
		 ON CONFLICT (guild_id, player_name) DO UPDATE SET kills = kills + 1, updated_at = excluded.updated_at`,
		guildID, killerName, time.Now(),
	).Error; err != nil {
		return err
	}
	return r.db.Exec(
		`INSERT INTO player_stats (guild_id, player_name, kills, deaths, suicides, updated_at)
		 VALUES (?, ?, 0, 1, 0, ?)
		 ON CONFLICT (guild_id, player_name) DO UPDATE SET deaths = deaths + 1, updated_at = excluded.updated_at`,
		guildID, victimName, time.Now(),
	).Error
}

func (r *statsRepo) RecordSuicide(guildID, playerName string) error {
	return r.db.Exec(
		`INSERT INTO player_stats (guild_id, player_name, kills, deaths, suicides, updated_at)
		 VALUES (?, ?, 0, 1, 1, ?)
		 ON CONFLICT (guild_id, player_name) DO UPDATE SET deaths = deaths + 1, suicides = suicides + 1, updated_at = excluded.updated_at`,
		guildID, playerName, time.Now(),
	).Error
}

func (r *statsRepo) Get(guildID, playerName string) (*PlayerStats, error) {
	var stats PlayerStats
	err := r.db.Where("guild_id = ? AND player_name = ?", guildID, playerName).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
