package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/NewUser1121/Loa-Bot/bot/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	return db
}

func testStore(t *testing.T) *Store {
	t.Helper()
	return New(testDB(t))
}

func leaveParams() LeaveParams {
	return LeaveParams{
		GuildId:    "g1",
		ServerName: "65th Regiment",
		UserId:     "u1",
		Username:   "smith#1234",
		Job:        "Light Infantry",
		Team:       "Nomad 1-1",
		Start:      "10/28/2025",
		End:        "11/5/2025",
	}
}

func TestRecordLeaveCreates(t *testing.T) {
	st := testStore(t)

	res, err := st.RecordLeave(leaveParams())
	require.NoError(t, err)
	assert.False(t, res.AlreadyExists)
	assert.Equal(t, models.LoaStatusActive, res.Loa.Status)
	assert.Equal(t, int64(1), res.Stats.LoaCount)
	assert.False(t, res.Loa.SubmittedAt.IsZero())
}

func TestRecordLeaveContentDedup(t *testing.T) {
	st := testStore(t)

	first, err := st.RecordLeave(leaveParams())
	require.NoError(t, err)

	second, err := st.RecordLeave(leaveParams())
	require.NoError(t, err)
	assert.True(t, second.AlreadyExists)
	assert.Equal(t, first.Loa.ID, second.Loa.ID)

	var count int64
	require.NoError(t, st.db.Model(&models.Loa{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	stats, err := st.StatsFor("g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.LoaCount)
}

func TestRecordLeaveMessageDedup(t *testing.T) {
	st := testStore(t)

	p := leaveParams()
	p.MessageId = "m1"
	_, err := st.RecordLeave(p)
	require.NoError(t, err)

	p.Start = "1/1/2026"
	p.End = "1/2/2026"
	res, err := st.RecordLeave(p)
	require.NoError(t, err)
	assert.True(t, res.AlreadyExists)
}

func TestRecordLeaveBackfillsMessageId(t *testing.T) {
	st := testStore(t)

	_, err := st.RecordLeave(leaveParams())
	require.NoError(t, err)

	p := leaveParams()
	p.MessageId = "scan-msg"
	res, err := st.RecordLeave(p)
	require.NoError(t, err)
	assert.True(t, res.AlreadyExists)
	assert.Equal(t, "scan-msg", res.Loa.MessageId)

	found, err := st.FindLeaveByContent("g1", "u1", p.Start, p.End)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "scan-msg", found.MessageId)
}

func TestRecordLeaveGuildScoped(t *testing.T) {
	st := testStore(t)

	_, err := st.RecordLeave(leaveParams())
	require.NoError(t, err)

	p := leaveParams()
	p.GuildId = "g2"
	res, err := st.RecordLeave(p)
	require.NoError(t, err)
	assert.False(t, res.AlreadyExists)
}

func TestStoreNotConnected(t *testing.T) {
	st := New(nil)

	_, err := st.RecordLeave(leaveParams())
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = st.FindLeaveByContent("g1", "u1", "1/1/25", "1/2/25")
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = st.LeaveCount("g1")
	assert.ErrorIs(t, err, ErrNotConnected)

	assert.ErrorIs(t, st.SetLoaChannel("g1", "c1"), ErrNotConnected)
	assert.False(t, st.Connected())
}

func TestFindLeaveByContentMiss(t *testing.T) {
	st := testStore(t)

	found, err := st.FindLeaveByContent("g1", "u1", "1/1/25", "1/2/25")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestRecordTrainingDedup(t *testing.T) {
	st := testStore(t)

	p := TrainingParams{
		GuildId:      "g1",
		UserId:       "u1",
		Username:     "smith#1234",
		Rank:         "Sgt",
		Training:     "CQB",
		Availability: "weekends",
	}

	first, err := st.RecordTraining(p)
	require.NoError(t, err)
	assert.False(t, first.AlreadyExists)
	assert.Equal(t, models.TrainingStatusPending, first.Request.Status)

	p.MessageId = "m1"
	p.ChannelId = "c1"
	second, err := st.RecordTraining(p)
	require.NoError(t, err)
	assert.True(t, second.AlreadyExists)
	assert.Equal(t, "m1", second.Request.MessageId)
	assert.Equal(t, "c1", second.Request.ChannelId)
}

func TestRegisterTrainerOverwrites(t *testing.T) {
	st := testStore(t)

	p := TrainerParams{
		GuildId:      "g1",
		UserId:       "u1",
		Username:     "smith",
		Specialties:  "CQB",
		Availability: "weekends",
	}

	first, err := st.RegisterTrainer(p)
	require.NoError(t, err)

	p.Specialties = "everything"
	p.Availability = "anytime"
	second, err := st.RegisterTrainer(p)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "everything", second.Specialties)
	assert.Equal(t, "anytime", second.Availability)

	var count int64
	require.NoError(t, st.db.Model(&models.Trainer{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCancelLeave(t *testing.T) {
	st := testStore(t)

	res, err := st.RecordLeave(leaveParams())
	require.NoError(t, err)

	_, err = st.CancelLeave(res.Loa.ID, "someone-else")
	assert.ErrorIs(t, err, ErrNotOwner)

	cancelled, err := st.CancelLeave(res.Loa.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.LoaStatusCancelled, cancelled.Status)

	_, err = st.CancelLeave(9999, "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelTraining(t *testing.T) {
	st := testStore(t)

	res, err := st.RecordTraining(TrainingParams{
		GuildId: "g1", UserId: "u1", Username: "smith",
		Training: "CQB", Availability: "weekends",
	})
	require.NoError(t, err)

	_, err = st.CancelTraining(res.Request.ID, "someone-else")
	assert.ErrorIs(t, err, ErrNotOwner)

	cancelled, err := st.CancelTraining(res.Request.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.TrainingStatusCancelled, cancelled.Status)
}

func TestSetTrainingStatus(t *testing.T) {
	st := testStore(t)

	res, err := st.RecordTraining(TrainingParams{
		GuildId: "g1", UserId: "u1", Username: "smith",
		Training: "CQB", Availability: "weekends",
	})
	require.NoError(t, err)

	updated, err := st.SetTrainingStatus(res.Request.ID, models.TrainingStatusScheduled)
	require.NoError(t, err)
	assert.Equal(t, models.TrainingStatusScheduled, updated.Status)

	_, err = st.SetTrainingStatus(9999, models.TrainingStatusCompleted)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLatestLeave(t *testing.T) {
	st := testStore(t)

	_, err := st.RecordLeave(leaveParams())
	require.NoError(t, err)

	p := leaveParams()
	p.Start = "12/1/2025"
	p.End = "12/8/2025"
	_, err = st.RecordLeave(p)
	require.NoError(t, err)

	latest, err := st.LatestLeave("g1", "u1", "Nomad 1-1")
	require.NoError(t, err)
	assert.Equal(t, "12/1/2025", latest.Start)

	_, err = st.LatestLeave("g1", "u1", "Odin 3-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatsForMiss(t *testing.T) {
	st := testStore(t)

	stats, err := st.StatsFor("g1", "nobody")
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestLeaveCount(t *testing.T) {
	st := testStore(t)

	_, err := st.RecordLeave(leaveParams())
	require.NoError(t, err)

	p := leaveParams()
	p.UserId = "u2"
	_, err = st.RecordLeave(p)
	require.NoError(t, err)

	count, err := st.LeaveCount("g1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = st.LeaveCount("other-guild")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestGuildSettings(t *testing.T) {
	st := testStore(t)

	settings, err := st.Settings("g1")
	require.NoError(t, err)
	assert.Empty(t, settings.LoaChannelId)
	assert.Empty(t, settings.TrainingChannelId)

	require.NoError(t, st.SetLoaChannel("g1", "c-loa"))
	require.NoError(t, st.SetTrainingChannel("g1", "c-training"))

	settings, err = st.Settings("g1")
	require.NoError(t, err)
	assert.Equal(t, "c-loa", settings.LoaChannelId)
	assert.Equal(t, "c-training", settings.TrainingChannelId)

	require.NoError(t, st.SetLoaChannel("g1", "c-loa-2"))
	settings, err = st.Settings("g1")
	require.NoError(t, err)
	assert.Equal(t, "c-loa-2", settings.LoaChannelId)
	assert.Equal(t, "c-training", settings.TrainingChannelId)
}
