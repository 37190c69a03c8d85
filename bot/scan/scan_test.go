package scan

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/NewUser1121/Loa-Bot/bot/models"
	"github.com/NewUser1121/Loa-Bot/bot/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	return store.New(db)
}

func mapResolver(members map[string]*discordgo.Member) MemberResolver {
	return func(userID string) (*discordgo.Member, []string, error) {
		member, ok := members[userID]
		if !ok {
			return nil, nil, nil
		}
		return member, []string{"nomad 1-1", "light infantry"}, nil
	}
}

func member(id, username string) *discordgo.Member {
	return &discordgo.Member{User: &discordgo.User{ID: id, Username: username, Discriminator: "0001"}}
}

func textMessage(id, authorID, content string) *discordgo.Message {
	return &discordgo.Message{
		ID:      id,
		Content: content,
		Author:  &discordgo.User{ID: authorID, Username: "author"},
	}
}

var testGuild = &discordgo.Guild{ID: "g1", Name: "65th Regiment"}

func TestImportLeaveHistory(t *testing.T) {
	st := testStore(t)
	resolve := mapResolver(map[string]*discordgo.Member{"u1": member("u1", "smith")})

	msgs := []*discordgo.Message{
		textMessage("m1", "u1", "Start: 10/28/2025 End: 11/5/2025"),
		textMessage("m2", "u1", "just chatting, no dates"),
	}

	summary := ImportLeaveHistory(st, testGuild, msgs, resolve)
	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)

	loa, err := st.FindLeaveByContent("g1", "u1", "10/28/2025", "11/5/2025")
	require.NoError(t, err)
	require.NotNil(t, loa)
	assert.Equal(t, "m1", loa.MessageId)
	assert.Equal(t, "Nomad 1-1", loa.Team)
}

func TestImportLeaveHistoryBotEmbedAuthorRecovery(t *testing.T) {
	st := testStore(t)
	resolve := mapResolver(map[string]*discordgo.Member{"700": member("700", "jones")})

	msgs := []*discordgo.Message{{
		ID:     "m1",
		Author: &discordgo.User{ID: "bot1", Username: "loabot", Bot: true},
		Embeds: []*discordgo.MessageEmbed{{
			Description: "<@700>",
			Fields: []*discordgo.MessageEmbedField{{
				Name:  "Time",
				Value: "**Start:** 3/1/2025\n**End:** 3/8/2025",
			}},
		}},
	}}

	summary := ImportLeaveHistory(st, testGuild, msgs, resolve)
	assert.Equal(t, 1, summary.Imported)

	loa, err := st.FindLeaveByContent("g1", "700", "3/1/2025", "3/8/2025")
	require.NoError(t, err)
	require.NotNil(t, loa)
}

func TestImportLeaveHistorySkipsDuplicates(t *testing.T) {
	st := testStore(t)
	resolve := mapResolver(map[string]*discordgo.Member{"u1": member("u1", "smith")})

	msgs := []*discordgo.Message{
		textMessage("m1", "u1", "Start: 10/28/2025 End: 11/5/2025"),
	}

	first := ImportLeaveHistory(st, testGuild, msgs, resolve)
	assert.Equal(t, 1, first.Imported)

	second := ImportLeaveHistory(st, testGuild, msgs, resolve)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 1, second.Skipped)
}

func TestImportLeaveHistorySkipsUnresolvedMembers(t *testing.T) {
	st := testStore(t)
	resolve := mapResolver(nil)

	msgs := []*discordgo.Message{
		textMessage("m1", "left-the-server", "Start: 10/28/2025 End: 11/5/2025"),
	}

	summary := ImportLeaveHistory(st, testGuild, msgs, resolve)
	assert.Equal(t, 0, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
}

func TestImportTrainingHistory(t *testing.T) {
	st := testStore(t)
	resolve := mapResolver(map[string]*discordgo.Member{"u1": member("u1", "smith")})

	msgs := []*discordgo.Message{
		textMessage("m1", "u1", "Rank: Sgt Training: CQB Availability: weekends"),
		textMessage("m2", "u1", "Rank: Sgt nothing else"),
	}

	summary := ImportTrainingHistory(st, testGuild, "c1", msgs, resolve)
	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)

	latest, err := st.LatestTraining("g1", "u1", models.TrainingStatusPending)
	require.NoError(t, err)
	assert.Equal(t, "CQB", latest.Training)
	assert.Equal(t, "Sgt", latest.Rank)
	assert.Equal(t, "c1", latest.ChannelId)
}
