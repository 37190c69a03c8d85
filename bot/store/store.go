// Package store is the persistence layer for leave records, training
// requests, trainer registrations and per-guild settings. Every
// operation is scoped to one guild and fails cleanly with
// ErrNotConnected when no database is attached.
package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/NewUser1121/Loa-Bot/bot/models"
)

var (
	// ErrNotConnected is returned by every operation when the backing
	// database is not configured, so operators can tell "not set up"
	// apart from a real failure.
	ErrNotConnected = errors.New("not connected to database")

	// ErrNotFound is returned when a referenced record id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNotOwner is returned when a member tries to mutate a record
	// that belongs to someone else.
	ErrNotOwner = errors.New("record belongs to another user")
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Connected reports whether the store has a database attached.
func (s *Store) Connected() bool {
	return s != nil && s.db != nil
}

// LeaveParams is the input for RecordLeave. MessageId is empty for
// modal submissions that have not been posted yet.
type LeaveParams struct {
	GuildId    string
	ServerName string
	UserId     string
	Username   string
	Job        string
	Team       string
	Start      string
	End        string
	MessageId  string
}

// LeaveResult is the outcome of RecordLeave. AlreadyExists marks a
// dedup hit; the existing record is returned and nothing was created.
type LeaveResult struct {
	Loa           *models.Loa
	Stats         *models.UserStats
	AlreadyExists bool
}

// RecordLeave creates a leave record unless one already exists. Two
// dedup keys are checked in order: the source message id (exact
// import-once guard), then the (user, start, end) content tuple. A
// content hit from an import backfills the message id onto the
// existing record so later scans recognize it.
//
// On create, the user's stats row is upserted with the counter
// incremented. The read-then-write window is not transactional; the
// unique indexes on the models backstop the race.
func (s *Store) RecordLeave(p LeaveParams) (*LeaveResult, error) {
	if !s.Connected() {
		return nil, ErrNotConnected
	}

	if p.MessageId != "" {
		var existing models.Loa
		err := s.db.Where(&models.Loa{GuildId: p.GuildId, MessageId: p.MessageId}).First(&existing).Error
		switch {
		case err == nil:
			return &LeaveResult{Loa: &existing, AlreadyExists: true}, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("failed to check message dedup key: %w", err)
		}
	}

	var existing models.Loa
	err := s.db.Where(&models.Loa{GuildId: p.GuildId, UserId: p.UserId, Start: p.Start, End: p.End}).First(&existing).Error
	switch {
	case err == nil:
		if p.MessageId != "" && existing.MessageId == "" {
			existing.MessageId = p.MessageId
			if err := s.db.Save(&existing).Error; err != nil {
				return nil, fmt.Errorf("failed to backfill message id: %w", err)
			}
		}
		return &LeaveResult{Loa: &existing, AlreadyExists: true}, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to check content dedup key: %w", err)
	}

	loa := models.Loa{
		GuildId:     p.GuildId,
		ServerName:  p.ServerName,
		UserId:      p.UserId,
		Username:    p.Username,
		Start:       p.Start,
		End:         p.End,
		Job:         p.Job,
		Team:        p.Team,
		MessageId:   p.MessageId,
		Status:      models.LoaStatusActive,
		SubmittedAt: time.Now(),
	}
	if err := s.db.Create(&loa).Error; err != nil {
		return nil, fmt.Errorf("failed to create leave record: %w", err)
	}

	stats, err := s.bumpStats(p.GuildId, p.UserId, p.Username)
	if err != nil {
		return nil, err
	}

	return &LeaveResult{Loa: &loa, Stats: stats}, nil
}

func (s *Store) bumpStats(guildID, userID, username string) (*models.UserStats, error) {
	var stats models.UserStats
	err := s.db.Where(&models.UserStats{GuildId: guildID, UserId: userID}).First(&stats).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		stats = models.UserStats{
			GuildId:     guildID,
			UserId:      userID,
			Username:    username,
			LoaCount:    1,
			LastUpdated: time.Now(),
		}
		if err := s.db.Create(&stats).Error; err != nil {
			return nil, fmt.Errorf("failed to create user stats: %w", err)
		}
		return &stats, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load user stats: %w", err)
	}

	updates := map[string]any{
		"loa_count":    gorm.Expr("loa_count + ?", 1),
		"username":     username,
		"last_updated": time.Now(),
	}
	if err := s.db.Model(&stats).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user stats: %w", err)
	}

	if err := s.db.Where(&models.UserStats{GuildId: guildID, UserId: userID}).First(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to reload user stats: %w", err)
	}

	return &stats, nil
}

// FindLeaveByContent looks up an existing record by the content dedup
// key. A miss is (nil, nil), not an error.
func (s *Store) FindLeaveByContent(guildID, userID, start, end string) (*models.Loa, error) {
	if !s.Connected() {
		return nil, ErrNotConnected
	}

	var loa models.Loa
	err := s.db.Where(&models.Loa{GuildId: guildID, UserId: userID, Start: start, End: end}).First(&loa).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to look up leave record: %w", err)
	}

	return &loa, nil
}

// TrainingParams is the input for RecordTraining.
type TrainingParams struct {
	GuildId      string
	UserId       string
	Username     string
	Rank         string
	Training     string
	Availability string
	MessageId    string
	ChannelId    string
}

type TrainingResult struct {
	Request       *models.TrainingRequest
	AlreadyExists bool
}

// RecordTraining mirrors RecordLeave's dual-key dedup for training
// requests. No stats row is touched. New requests start pending.
func (s *Store) RecordTraining(p TrainingParams) (*TrainingResult, error) {
	if !s.Connected() {
		return nil, ErrNotConnected
	}

	if p.MessageId != "" {
		var existing models.TrainingRequest
		err := s.db.Where(&models.TrainingRequest{GuildId: p.GuildId, MessageId: p.MessageId}).First(&existing).Error
		switch {
		case err == nil:
			return &TrainingResult{Request: &existing, AlreadyExists: true}, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("failed to check message dedup key: %w", err)
		}
	}

	var existing models.TrainingRequest
	err := s.db.Where(&models.TrainingRequest{
		GuildId:      p.GuildId,
		UserId:       p.UserId,
		Training:     p.Training,
		Availability: p.Availability,
	}).First(&existing).Error
	switch {
	case err == nil:
		if p.MessageId != "" && existing.MessageId == "" {
			existing.MessageId = p.MessageId
			if p.ChannelId != "" {
				existing.ChannelId = p.ChannelId
			}
			if err := s.db.Save(&existing).Error; err != nil {
				return nil, fmt.Errorf("failed to backfill message id: %w", err)
			}
		}
		return &TrainingResult{Request: &existing, AlreadyExists: true}, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to check content dedup key: %w", err)
	}

	request := models.TrainingRequest{
		GuildId:      p.GuildId,
		UserId:       p.UserId,
		Username:     p.Username,
		Rank:         p.Rank,
		Training:     p.Training,
		Availability: p.Availability,
		MessageId:    p.MessageId,
		ChannelId:    p.ChannelId,
		Status:       models.TrainingStatusPending,
		SubmittedAt:  time.Now(),
	}
	if err := s.db.Create(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to create training request: %w", err)
	}

	return &TrainingResult{Request: &request}, nil
}

// TrainerParams is the input for RegisterTrainer.
type TrainerParams struct {
	GuildId      string
	UserId       string
	Username     string
	Specialties  string
	Availability string
}

// RegisterTrainer upserts the trainer record for (guild, user).
func (s *Store) RegisterTrainer(p TrainerParams) (*models.Trainer, error) {
	if !s.Connected() {
		return nil, ErrNotConnected
	}

	var trainer models.Trainer
	err := s.db.Where(&models.Trainer{GuildId: p.GuildId, UserId: p.UserId}).First(&trainer).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		trainer = models.Trainer{
			GuildId:      p.GuildId,
			UserId:       p.UserId,
			Username:     p.Username,
			Specialties:  p.Specialties,
			Availability: p.Availability,
			SubmittedAt:  time.Now(),
		}
		if err := s.db.Create(&trainer).Error; err != nil {
			return nil, fmt.Errorf("failed to create trainer: %w", err)
		}
		return &trainer, nil
	case err != nil:
		return nil, fmt.Errorf("failed to look up trainer: %w", err)
	}

	trainer.Specialties = p.Specialties
	trainer.Availability = p.Availability
	if err := s.db.Save(&trainer).Error; err != nil {
		return nil, fmt.Errorf("failed to update trainer: %w", err)
	}

	return &trainer, nil
}

// CancelLeave flips a leave record to cancelled. Only the owner may
// cancel.
func (s *Store) CancelLeave(id uint, userID string) (*models.Loa, error) {
	if !s.Connected() {
		return nil, ErrNotConnected
	}

	var loa models.Loa
	err := s.db.First(&loa, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to load leave record: %w", err)
	}

	if loa.UserId != userID {
		return nil, ErrNotOwner
	}

	loa.Status = models.LoaStatusCancelled
	if err := s.db.Save(&loa).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel leave record: %w", err)
	}

	return &loa, nil
}

// CancelTraining flips a training request to cancelled. Only the owner
// may cancel.
func (s *Store) CancelTraining(id uint, userID string) (*models.TrainingRequest, error) {
	if !s.Connected() {
		return nil, ErrNotConnected
	}

	var request models.TrainingRequest
	err := s.db.First(&request, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to load training request: %w", err)
	}

	if request.UserId != userID {
		return nil, ErrNotOwner
	}

	request.Status = models.TrainingStatusCancelled
	if err := s.db.Save(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel training request: %w", err)
	}

	return &request, nil
}

// SetTrainingStatus moves a training request to a new status. The
// caller is responsible for the permission check.
func (s *Store) SetTrainingStatus(id uint, status string) (*models.TrainingRequest, error) {
	if !s.Connected() {
		return nil, ErrNotConnected
	}

	var request models.TrainingRequest
	err := s.db.First(&request, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to load training request: %w", err)
	}

	request.Status = status
	if err := s.db.Save(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to update training status: %w", err)
	}

	return &request, nil
}

// LatestLeave returns the most recently submitted leave record for a
// user within a team, or ErrNotFound.
func (s *Store) LatestLeave(guildID, userID, team string) (*models.Loa, error) {
	if !s.Connected() {
		return nil, ErrNotConnected
	}

	var loa models.Loa
	err := s.db.Where(&models.Loa{GuildId: guildID, UserId: userID, Team: team}).
		Order("submitted_at DESC").
		First(&loa).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to load latest leave record: %w", err)
	}

	return &loa, nil
}

// LatestTraining returns the most recently submitted training request
// for a user in a status bucket, or ErrNotFound.
func (s *Store) LatestTraining(guildID, userID, status string) (*models.TrainingRequest, error) {
	if !s.Connected() {
		return nil, ErrNotConnected
	}

	var request models.TrainingRequest
	err := s.db.Where(&models.TrainingRequest{GuildId: guildID, UserId: userID, Status: status}).
		Order("submitted_at DESC").
		First(&request).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to load latest training request: %w", err)
	}

	return &request, nil
}

// StatsFor returns the stats row for a user, or (nil, nil) when the
// user never submitted a leave record.
func (s *Store) StatsFor(guildID, userID string) (*models.UserStats, error) {
	if !s.Connected() {
		return nil, ErrNotConnected
	}

	var stats models.UserStats
	err := s.db.Where(&models.UserStats{GuildId: guildID, UserId: userID}).First(&stats).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load user stats: %w", err)
	}

	return &stats, nil
}

// LeaveCount counts every leave record in a guild.
func (s *Store) LeaveCount(guildID string) (int64, error) {
	if !s.Connected() {
		return 0, ErrNotConnected
	}

	var count int64
	if err := s.db.Model(&models.Loa{}).Where(&models.Loa{GuildId: guildID}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count leave records: %w", err)
	}

	return count, nil
}

// Settings returns the guild's channel configuration, zero-valued when
// nothing was configured yet.
func (s *Store) Settings(guildID string) (*models.GuildSettings, error) {
	if !s.Connected() {
		return nil, ErrNotConnected
	}

	var settings models.GuildSettings
	err := s.db.Where(&models.GuildSettings{GuildId: guildID}).First(&settings).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &models.GuildSettings{GuildId: guildID}, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load guild settings: %w", err)
	}

	return &settings, nil
}

// SetLoaChannel records the channel monitored and scanned for LOAs.
func (s *Store) SetLoaChannel(guildID, channelID string) error {
	return s.updateSettings(guildID, map[string]any{"loa_channel_id": channelID})
}

// SetTrainingChannel records the channel scanned for training requests.
func (s *Store) SetTrainingChannel(guildID, channelID string) error {
	return s.updateSettings(guildID, map[string]any{"training_channel_id": channelID})
}

func (s *Store) updateSettings(guildID string, updates map[string]any) error {
	if !s.Connected() {
		return ErrNotConnected
	}

	var settings models.GuildSettings
	err := s.db.Where(&models.GuildSettings{GuildId: guildID}).FirstOrCreate(&settings).Error
	if err != nil {
		return fmt.Errorf("failed to load guild settings: %w", err)
	}

	if err := s.db.Model(&settings).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update guild settings: %w", err)
	}

	return nil
}
