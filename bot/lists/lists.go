// Package lists computes and renders the paginated admin list views:
// members with active LOAs per team and time window, and members with
// training requests per status bucket.
package lists

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"

	"github.com/NewUser1121/Loa-Bot/bot/dates"
	"github.com/NewUser1121/Loa-Bot/bot/models"
)

const embedColor = 0x00ae86

// Window is a time bucket for the leave list.
type Window string

const (
	WindowDay   Window = "day"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowAll   Window = "all"
)

// Windows is the bucket-switch order shown under the leave list.
var Windows = []Window{WindowDay, WindowWeek, WindowMonth, WindowAll}

var windowDurations = map[Window]time.Duration{
	WindowDay:   24 * time.Hour,
	WindowWeek:  7 * 24 * time.Hour,
	WindowMonth: 30 * 24 * time.Hour,
}

var windowLabels = map[Window]string{
	WindowDay:   "Past 24 Hours",
	WindowWeek:  "Past Week",
	WindowMonth: "Past Month",
	WindowAll:   "All Time",
}

var windowButtonLabels = map[Window]string{
	WindowDay:   "Past Day",
	WindowWeek:  "Past Week",
	WindowMonth: "Past Month",
	WindowAll:   "All Time",
}

// TrainingStatuses is the bucket-switch order shown under the training
// list. Cancelled requests have no bucket.
var TrainingStatuses = []string{
	models.TrainingStatusPending,
	models.TrainingStatusScheduled,
	models.TrainingStatusCompleted,
}

// Member is one distinct user appearing in a list view.
type Member struct {
	UserId   string `gorm:"column:user_id"`
	Username string
}

// LeaveMembers returns the distinct members of a team with an active
// leave record whose start date falls inside the window, sorted by
// username. When a member has several matching records the most
// recently submitted one wins.
func LeaveMembers(db *gorm.DB, guildID, team string, window Window, now time.Time) ([]Member, error) {
	var loas []models.Loa
	err := db.Where(&models.Loa{GuildId: guildID, Team: team, Status: models.LoaStatusActive}).
		Order("submitted_at DESC").
		Find(&loas).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list leave records: %w", err)
	}

	var cutoff time.Time
	if window != WindowAll {
		duration, ok := windowDurations[window]
		if !ok {
			return nil, fmt.Errorf("unknown time window %q", window)
		}
		cutoff = now.Add(-duration)
	}

	seen := make(map[string]bool)
	var members []Member
	for _, loa := range loas {
		if window != WindowAll && dates.ParseDate(loa.Start).Before(cutoff) {
			continue
		}
		if seen[loa.UserId] {
			continue
		}
		seen[loa.UserId] = true
		members = append(members, Member{UserId: loa.UserId, Username: loa.Username})
	}

	sort.Slice(members, func(i, j int) bool { return members[i].Username < members[j].Username })

	return members, nil
}

// TrainingMembers returns the distinct members with a training request
// in the given status, sorted by username.
func TrainingMembers(db *gorm.DB, guildID, status string) ([]Member, error) {
	var members []Member
	err := db.Model(&models.TrainingRequest{}).
		Select("user_id, MIN(username) AS username").
		Where(&models.TrainingRequest{GuildId: guildID, Status: status}).
		Group("user_id").
		Order("username ASC").
		Scan(&members).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list training requests: %w", err)
	}

	return members, nil
}

// View is a rendered list: one embed plus its member menu and bucket
// buttons.
type View struct {
	Embed      *discordgo.MessageEmbed
	Components []discordgo.MessageComponent
}

// RenderTarget is a UI surface a view can be delivered to.
type RenderTarget interface {
	// UpdateInPlace refreshes the interactive message that triggered
	// the request.
	UpdateInPlace(view *View) error
	// EditPreviousResponse edits the already-sent response when the
	// interaction can no longer be updated in place.
	EditPreviousResponse(view *View) error
}

// Render delivers a view, trying the in-place update first and the
// edit path second. Failing both is an error, never a silent drop.
func Render(target RenderTarget, view *View) error {
	err := target.UpdateInPlace(view)
	if err == nil {
		return nil
	}

	if editErr := target.EditPreviousResponse(view); editErr != nil {
		return fmt.Errorf("no available method to update interaction response: %w", editErr)
	}

	return nil
}

// LeaveView builds the leave list for one team and window.
func LeaveView(team string, window Window, members []Member) *View {
	var components []discordgo.MessageComponent

	if menu, ok := memberMenu("loa_list_user_select_"+team, "Select a member", "View LOA details", members); ok {
		components = append(components, menu)
	}

	buttons := make([]discordgo.MessageComponent, 0, len(Windows))
	for _, w := range Windows {
		buttons = append(buttons, discordgo.Button{
			CustomID: fmt.Sprintf("loa_filter_%s_%s", team, w),
			Label:    windowButtonLabels[w],
			Style:    buttonStyle(w == window),
		})
	}
	components = append(components, discordgo.ActionsRow{Components: buttons})

	embed := &discordgo.MessageEmbed{
		Title: "LOA List",
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Team Name", Value: team},
			{
				Name:  fmt.Sprintf("Members on LOA (%s)", windowLabels[window]),
				Value: fmt.Sprintf("%d", len(members)),
			},
		},
	}

	return &View{Embed: embed, Components: components}
}

// TrainingView builds the training request list for one status bucket.
func TrainingView(status string, members []Member) *View {
	var components []discordgo.MessageComponent

	if menu, ok := memberMenu("training_list_user_select_"+status, "Select a member", "View Training Request details", members); ok {
		components = append(components, menu)
	}

	buttons := make([]discordgo.MessageComponent, 0, len(TrainingStatuses))
	for _, s := range TrainingStatuses {
		buttons = append(buttons, discordgo.Button{
			CustomID: "training_filter_" + s,
			Label:    capitalize(s),
			Style:    buttonStyle(s == status),
		})
	}
	components = append(components, discordgo.ActionsRow{Components: buttons})

	embed := &discordgo.MessageEmbed{
		Title: "Training Requests List",
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  fmt.Sprintf("Members with %s Requests", capitalize(status)),
				Value: fmt.Sprintf("%d", len(members)),
			},
		},
	}

	return &View{Embed: embed, Components: components}
}

func memberMenu(customID, placeholder, description string, members []Member) (discordgo.MessageComponent, bool) {
	if len(members) == 0 {
		return nil, false
	}

	options := make([]discordgo.SelectMenuOption, 0, len(members))
	for _, member := range members {
		options = append(options, discordgo.SelectMenuOption{
			Label:       member.Username,
			Value:       member.UserId,
			Description: description,
		})
	}

	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    customID,
				Placeholder: placeholder,
				Options:     options,
			},
		},
	}, true
}

func buttonStyle(active bool) discordgo.ButtonStyle {
	if active {
		return discordgo.PrimaryButton
	}
	return discordgo.SecondaryButton
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
