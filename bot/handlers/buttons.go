package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/NewUser1121/Loa-Bot/bot/lists"
	"github.com/NewUser1121/Loa-Bot/bot/responses"
	"github.com/NewUser1121/Loa-Bot/bot/roles"
	"github.com/NewUser1121/Loa-Bot/bot/store"
	"github.com/NewUser1121/Loa-Bot/utils"
)

func runLeaveFilter(deps *Deps, s *discordgo.Session, i *discordgo.InteractionCreate, team string, window lists.Window) {
	members, err := lists.LeaveMembers(deps.DB, i.GuildID, team, window, time.Now())
	if err != nil {
		log.Error().Err(err).Str("guild_id", i.GuildID).Str("team", team).Msg("Failed to build leave list")
		respond(s, i, responses.GenericErrorResponse)
		return
	}

	renderListView(deps, s, i, lists.LeaveView(team, window, members))
}

func runTrainingFilter(deps *Deps, s *discordgo.Session, i *discordgo.InteractionCreate, status string) {
	members, err := lists.TrainingMembers(deps.DB, i.GuildID, status)
	if err != nil {
		log.Error().Err(err).Str("guild_id", i.GuildID).Str("status", status).Msg("Failed to build training list")
		respond(s, i, responses.GenericErrorResponse)
		return
	}

	renderListView(deps, s, i, lists.TrainingView(status, members))
}

// renderListView delivers a list view through the interaction, and as
// a last resort edits the admin's remembered list message directly.
func renderListView(deps *Deps, s *discordgo.Session, i *discordgo.InteractionCreate, view *lists.View) {
	err := lists.Render(interactionTarget{s: s, i: i}, view)
	if err == nil {
		return
	}

	if msgID, ok := deps.ListMessages.Get(i.Member.User.ID); ok {
		_, editErr := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			Channel:    i.ChannelID,
			ID:         msgID,
			Embeds:     []*discordgo.MessageEmbed{view.Embed},
			Components: view.Components,
		})
		if editErr == nil {
			return
		}
	}

	log.Error().Err(err).Str("interaction_id", i.ID).Msg("Failed to render list view")
}

// leaveFilterButton handles loa_filter_<team>_<window> bucket switches.
func leaveFilterButton(deps *Deps, s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	parts := strings.Split(customID, "_")
	if len(parts) != 4 {
		return
	}
	runLeaveFilter(deps, s, i, parts[2], lists.Window(parts[3]))
}

func leaveCancelButton(deps *Deps, s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	id, ok := utils.ParseRecordId(customID)
	if !ok {
		return
	}

	_, err := deps.Store.CancelLeave(id, i.Member.User.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respond(s, i, responses.Ephemeral("LOA not found"))
		return
	case errors.Is(err, store.ErrNotOwner):
		respond(s, i, responses.Ephemeral("You can only cancel your own LOA"))
		return
	case err != nil:
		respondStoreError(s, i, err)
		return
	}

	if i.Message != nil && len(i.Message.Embeds) > 0 {
		embed := i.Message.Embeds[0]
		embed.Description += "\n**Cancelled**"
		_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			Channel:    i.Message.ChannelID,
			ID:         i.Message.ID,
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: []discordgo.MessageComponent{},
		})
		if err != nil {
			log.Error().Err(err).Str("message_id", i.Message.ID).Msg("Failed to mark message cancelled")
		}
	}

	respond(s, i, responses.Ephemeral("LOA cancelled"))
}

func trainingCancelButton(deps *Deps, s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	id, ok := utils.ParseRecordId(customID)
	if !ok {
		return
	}

	request, err := deps.Store.CancelTraining(id, i.Member.User.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respond(s, i, responses.Ephemeral("Request not found"))
		return
	case errors.Is(err, store.ErrNotOwner):
		respond(s, i, responses.Ephemeral("You can only cancel your own request"))
		return
	case err != nil:
		respondStoreError(s, i, err)
		return
	}

	editStatusField(s, request.ChannelId, request.MessageId, "Cancelled")
	respond(s, i, responses.Ephemeral("Request cancelled"))
}

// trainingSetButton handles training_set_<status>_<id> moderation
// buttons.
func trainingSetButton(deps *Deps, s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	parts := strings.Split(customID, "_")
	if len(parts) != 4 {
		return
	}
	status := parts[2]

	id, ok := utils.ParseRecordId(customID)
	if !ok {
		return
	}

	user := i.Member.User
	if !roles.HasPermission(user.Username, roles.MemberRoles(s, i.GuildID, i.Member)) {
		respond(s, i, responses.Ephemeral("You don't have permission"))
		return
	}

	request, err := deps.Store.SetTrainingStatus(id, status)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respond(s, i, responses.Ephemeral("Request not found"))
		return
	case err != nil:
		respondStoreError(s, i, err)
		return
	}

	editStatusField(s, request.ChannelId, request.MessageId, capitalize(status))
	respond(s, i, responses.Ephemeral(fmt.Sprintf("Status updated to %s", status)))
}

// editStatusField rewrites the Status field on a previously posted
// request embed. Missing message or embed is only logged; the record
// update already happened.
func editStatusField(s *discordgo.Session, channelID, messageID, status string) {
	if channelID == "" || messageID == "" {
		return
	}

	msg, err := s.ChannelMessage(channelID, messageID)
	if err != nil || len(msg.Embeds) == 0 {
		log.Warn().Err(err).Str("message_id", messageID).Msg("Could not load request message for status edit")
		return
	}

	embed := msg.Embeds[0]
	for _, field := range embed.Fields {
		if field.Name == "Status" {
			field.Value = status
		}
	}

	edit := &discordgo.MessageEdit{
		Channel: channelID,
		ID:      messageID,
		Embeds:  []*discordgo.MessageEmbed{embed},
	}
	if status == "Cancelled" {
		edit.Components = []discordgo.MessageComponent{}
	}
	if _, err := s.ChannelMessageEditComplex(edit); err != nil {
		log.Error().Err(err).Str("message_id", messageID).Msg("Failed to edit request status")
	}
}
