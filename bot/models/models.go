package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	LoaStatusActive    = "active"
	LoaStatusCancelled = "cancelled"
)

const (
	TrainingStatusPending   = "pending"
	TrainingStatusScheduled = "scheduled"
	TrainingStatusCompleted = "completed"
	TrainingStatusCancelled = "cancelled"
)

// Loa is one leave-of-absence record. Records are never hard-deleted;
// cancellation flips Status to "cancelled".
type Loa struct {
	gorm.Model
	GuildId     string `gorm:"index;index:idx_loa_message,unique,where:message_id <> '';index:idx_loa_content,unique"`
	ServerName  string
	UserId      string `gorm:"index;index:idx_loa_content,unique"`
	Username    string
	Start       string `gorm:"index:idx_loa_content,unique"`
	End         string `gorm:"index:idx_loa_content,unique"`
	Job         string
	Team        string
	MessageId   string `gorm:"index:idx_loa_message,unique,where:message_id <> ''"`
	Status      string `gorm:"default:active"`
	SubmittedAt time.Time
}

// UserStats counts how many LOAs a user has ever submitted in a guild.
// The counter is never decremented, cancellations included.
type UserStats struct {
	gorm.Model
	GuildId     string `gorm:"index;index:idx_stats_user,unique"`
	UserId      string `gorm:"index;index:idx_stats_user,unique"`
	Username    string
	LoaCount    int64
	LastUpdated time.Time
}

type TrainingRequest struct {
	gorm.Model
	GuildId      string `gorm:"index;index:idx_training_message,unique,where:message_id <> '';index:idx_training_content,unique"`
	UserId       string `gorm:"index;index:idx_training_content,unique"`
	Username     string
	Rank         string
	Training     string `gorm:"index:idx_training_content,unique"`
	Availability string `gorm:"index:idx_training_content,unique"`
	MessageId    string `gorm:"index:idx_training_message,unique,where:message_id <> ''"`
	ChannelId    string
	Status       string `gorm:"default:pending"`
	SubmittedAt  time.Time
}

// Trainer holds one registration per (guild, user); re-registering
// overwrites specialties and availability in place.
type Trainer struct {
	gorm.Model
	GuildId      string `gorm:"index;index:idx_trainer_user,unique"`
	UserId       string `gorm:"index;index:idx_trainer_user,unique"`
	Username     string
	Specialties  string
	Availability string
	SubmittedAt  time.Time
}

// GuildSettings keeps the per-guild channel configuration.
type GuildSettings struct {
	gorm.Model
	GuildId           string `gorm:"uniqueIndex"`
	LoaChannelId      string
	TrainingChannelId string
}

// All lists every model for migration.
func All() []any {
	return []any{
		&Loa{},
		&UserStats{},
		&TrainingRequest{},
		&Trainer{},
		&GuildSettings{},
	}
}
