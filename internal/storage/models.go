package storage

import (
	"time"
)

// GuildConfig is the per-guild configuration row. The cursor columns
// (active_file_name, last_consumed_line) are updated far more often than the
// rest and only ever through UpdateCursor, which touches nothing else.
type GuildConfig struct {
	GuildID string `gorm:"primaryKey"`

	KillfeedEnabled bool `gorm:"default:false"`

	// Remote log source
	Protocol     string // "ftp", "sftp" or "local"
	Host         string
	Port         string
	User         string
	Password     string
	LogDirectory string `gorm:"not null"`
	FilePattern  string `gorm:"default:'.ADM'"` // substring log file names must contain
	BanlistPath  string

	// Discord channels
	KillfeedChannelID   string
	ConnectionChannelID string
	BuildLogChannelID   string

	// Auto-ban policy
	AutoBanOnKill      bool `gorm:"default:false"`
	AutoBanInSafeZones bool `gorm:"default:false"`

	PollIntervalSeconds int `gorm:"default:0"` // 0 = process default

	// Cursor into the remote log stream
	ActiveFileName   string
	LastConsumedLine string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (GuildConfig) TableName() string {
	return "guild_configs"
}

// Zone kinds and shapes
const (
	ZoneKindPVP  = "pvp"
	ZoneKindSafe = "safe"

	ZoneShapeCircle    = "circle"
	ZoneShapeRectangle = "rectangle"
)

// Zone is a named geographic region used to gate the auto-ban effect.
// Circles use X/Z/Radius, rectangles use MinX/MinZ/MaxX/MaxZ.
type Zone struct {
	ID      uint   `gorm:"primaryKey;autoIncrement"`
	GuildID string `gorm:"not null;index"`
	Name    string `gorm:"not null"`
	Kind    string `gorm:"not null"` // pvp | safe
	Shape   string `gorm:"not null"` // circle | rectangle

	X      float64
	Z      float64
	Radius float64

	MinX float64
	MinZ float64
	MaxX float64
	MaxZ float64
}

func (Zone) TableName() string {
	return "zones"
}

// Bounty is an open reward on a player name, paid to whoever gets the kill.
type Bounty struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	GuildID    string `gorm:"not null;index"`
	TargetName string `gorm:"not null;index"`
	Amount     int64  `gorm:"not null"`
	PlacedBy   string
	Active     bool `gorm:"default:true;index"`
	ClaimedBy  string
	ClaimedAt  *time.Time
	CreatedAt  time.Time
}

func (Bounty) TableName() string {
	return "bounties"
}

// PlayerStats accumulates per-player counters written by feed effects.
type PlayerStats struct {
	GuildID    string `gorm:"primaryKey"`
	PlayerName string `gorm:"primaryKey"`
	Kills      int64  `gorm:"default:0"`
	Deaths     int64  `gorm:"default:0"`
	Suicides   int64  `gorm:"default:0"`
	UpdatedAt  time.Time
}

func (PlayerStats) TableName() string {
	return "player_stats"
}
