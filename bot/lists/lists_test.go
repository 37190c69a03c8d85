package lists

import (
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
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

func seedLoa(t *testing.T, db *gorm.DB, userID, username, start, status string, submittedAt time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.Loa{
		GuildId:     "g1",
		UserId:      userID,
		Username:    username,
		Team:        "Nomad 1-1",
		Start:       start,
		End:         start,
		Status:      status,
		SubmittedAt: submittedAt,
	}).Error)
}

func memberNames(members []Member) []string {
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Username)
	}
	return names
}

func TestLeaveMembersWindows(t *testing.T) {
	db := testDB(t)
	now := time.Date(2025, time.October, 20, 12, 0, 0, 0, time.Local)

	seedLoa(t, db, "u1", "alice", "10/20/2025", models.LoaStatusActive, now)
	seedLoa(t, db, "u2", "bob", "10/15/2025", models.LoaStatusActive, now)
	seedLoa(t, db, "u3", "carol", "10/1/2025", models.LoaStatusActive, now)
	seedLoa(t, db, "u4", "dave", "1/1/2020", models.LoaStatusActive, now)

	day, err := LeaveMembers(db, "g1", "Nomad 1-1", WindowDay, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, memberNames(day))

	week, err := LeaveMembers(db, "g1", "Nomad 1-1", WindowWeek, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, memberNames(week))

	month, err := LeaveMembers(db, "g1", "Nomad 1-1", WindowMonth, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, memberNames(month))

	all, err := LeaveMembers(db, "g1", "Nomad 1-1", WindowAll, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol", "dave"}, memberNames(all))
}

func TestLeaveMembersExcludesCancelled(t *testing.T) {
	db := testDB(t)
	now := time.Date(2025, time.October, 20, 12, 0, 0, 0, time.Local)

	seedLoa(t, db, "u1", "alice", "10/20/2025", models.LoaStatusCancelled, now)

	members, err := LeaveMembers(db, "g1", "Nomad 1-1", WindowAll, now)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestLeaveMembersNewestRecordPerUser(t *testing.T) {
	db := testDB(t)
	now := time.Date(2025, time.October, 20, 12, 0, 0, 0, time.Local)

	seedLoa(t, db, "u1", "alice#old", "10/1/2025", models.LoaStatusActive, now.Add(-48*time.Hour))
	seedLoa(t, db, "u1", "alice#new", "10/20/2025", models.LoaStatusActive, now)

	members, err := LeaveMembers(db, "g1", "Nomad 1-1", WindowAll, now)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "alice#new", members[0].Username)
}

func TestLeaveMembersSortedByUsername(t *testing.T) {
	db := testDB(t)
	now := time.Date(2025, time.October, 20, 12, 0, 0, 0, time.Local)

	seedLoa(t, db, "u2", "zoe", "10/20/2025", models.LoaStatusActive, now)
	seedLoa(t, db, "u1", "adam", "10/20/2025", models.LoaStatusActive, now.Add(-time.Hour))

	members, err := LeaveMembers(db, "g1", "Nomad 1-1", WindowAll, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"adam", "zoe"}, memberNames(members))
}

func TestTrainingMembersGroupsByUser(t *testing.T) {
	db := testDB(t)

	seed := func(userID, username, training, status string) {
		require.NoError(t, db.Create(&models.TrainingRequest{
			GuildId:      "g1",
			UserId:       userID,
			Username:     username,
			Training:     training,
			Availability: "weekends",
			Status:       status,
			SubmittedAt:  time.Now(),
		}).Error)
	}

	seed("u1", "bob", "CQB", models.TrainingStatusPending)
	seed("u1", "bob", "Demolitions", models.TrainingStatusPending)
	seed("u2", "alice", "CQB", models.TrainingStatusPending)
	seed("u3", "carol", "CQB", models.TrainingStatusScheduled)

	pending, err := TrainingMembers(db, "g1", models.TrainingStatusPending)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, memberNames(pending))

	scheduled, err := TrainingMembers(db, "g1", models.TrainingStatusScheduled)
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, memberNames(scheduled))
}

func buttonRow(t *testing.T, components []discordgo.MessageComponent) []discordgo.MessageComponent {
	t.Helper()
	require.NotEmpty(t, components)
	row, ok := components[len(components)-1].(discordgo.ActionsRow)
	require.True(t, ok)
	return row.Components
}

func TestLeaveViewHighlightsActiveWindow(t *testing.T) {
	view := LeaveView("Nomad 1-1", WindowWeek, nil)

	buttons := buttonRow(t, view.Components)
	require.Len(t, buttons, len(Windows))

	for idx, w := range Windows {
		button, ok := buttons[idx].(discordgo.Button)
		require.True(t, ok)
		if w == WindowWeek {
			assert.Equal(t, discordgo.PrimaryButton, button.Style)
		} else {
			assert.Equal(t, discordgo.SecondaryButton, button.Style)
		}
	}
}

func TestLeaveViewMemberMenu(t *testing.T) {
	members := []Member{{UserId: "u1", Username: "alice"}}
	view := LeaveView("Nomad 1-1", WindowDay, members)

	require.Len(t, view.Components, 2)
	row, ok := view.Components[0].(discordgo.ActionsRow)
	require.True(t, ok)
	menu, ok := row.Components[0].(discordgo.SelectMenu)
	require.True(t, ok)
	assert.Equal(t, "loa_list_user_select_Nomad 1-1", menu.CustomID)
	require.Len(t, menu.Options, 1)
	assert.Equal(t, "u1", menu.Options[0].Value)

	empty := LeaveView("Nomad 1-1", WindowDay, nil)
	assert.Len(t, empty.Components, 1)
}

func TestTrainingViewHighlightsActiveStatus(t *testing.T) {
	view := TrainingView(models.TrainingStatusScheduled, nil)

	buttons := buttonRow(t, view.Components)
	require.Len(t, buttons, len(TrainingStatuses))

	for idx, status := range TrainingStatuses {
		button, ok := buttons[idx].(discordgo.Button)
		require.True(t, ok)
		assert.Equal(t, "training_filter_"+status, button.CustomID)
		if status == models.TrainingStatusScheduled {
			assert.Equal(t, discordgo.PrimaryButton, button.Style)
		} else {
			assert.Equal(t, discordgo.SecondaryButton, button.Style)
		}
	}
}

type fakeTarget struct {
	updateErr error
	editErr   error
	updated   int
	edited    int
}

func (f *fakeTarget) UpdateInPlace(view *View) error {
	f.updated++
	return f.updateErr
}

func (f *fakeTarget) EditPreviousResponse(view *View) error {
	f.edited++
	return f.editErr
}

func TestRenderPrefersUpdateInPlace(t *testing.T) {
	target := &fakeTarget{}
	require.NoError(t, Render(target, &View{}))
	assert.Equal(t, 1, target.updated)
	assert.Equal(t, 0, target.edited)
}

func TestRenderFallsBackToEdit(t *testing.T) {
	target := &fakeTarget{updateErr: errors.New("interaction already acknowledged")}
	require.NoError(t, Render(target, &View{}))
	assert.Equal(t, 1, target.edited)
}

func TestRenderFailsWhenBothFail(t *testing.T) {
	target := &fakeTarget{
		updateErr: errors.New("nope"),
		editErr:   errors.New("also nope"),
	}
	assert.Error(t, Render(target, &View{}))
}
