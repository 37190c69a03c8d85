package handlers

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/NewUser1121/Loa-Bot/bot/lists"
	"github.com/NewUser1121/Loa-Bot/bot/responses"
	"github.com/NewUser1121/Loa-Bot/bot/roles"
	"github.com/NewUser1121/Loa-Bot/bot/scan"
	"github.com/NewUser1121/Loa-Bot/bot/store"
)

func mainActionSelect(s *discordgo.Session, i *discordgo.InteractionCreate, value string) {
	switch value {
	case "submit_loa":
		respond(s, i, leaveSubmitModal())
	case "submit_training":
		respond(s, i, trainingSubmitModal())
	case "register_trainer":
		respond(s, i, trainerRegisterModal())
	}
}

func adminActionSelect(deps *Deps, s *discordgo.Session, i *discordgo.InteractionCreate, value string) {
	switch value {
	case "addchannel":
		channelPicker(s, i, "loa_channel_select", "Select the LOA channel")
	case "addtrainingchannel":
		channelPicker(s, i, "training_channel_select", "Select the training request channel")
	case "checkchannel":
		checkChannel(deps, s, i, false)
	case "checktrainingchannel":
		checkChannel(deps, s, i, true)
	case "scanchannel":
		scanChannel(deps, s, i, false)
	case "scantrainingchannel":
		scanChannel(deps, s, i, true)
	case "debugdb":
		debugDB(deps, s, i)
	}
}

// channelPicker offers the guild's text channels as a select menu.
// Discord caps a menu at 25 options; bigger guilds get the first 25.
func channelPicker(s *discordgo.Session, i *discordgo.InteractionCreate, customID, placeholder string) {
	channels, err := s.GuildChannels(i.GuildID)
	if err != nil {
		log.Error().Err(err).Str("guild_id", i.GuildID).Msg("Failed to list guild channels")
		respond(s, i, responses.GenericErrorResponse)
		return
	}

	var options []discordgo.SelectMenuOption
	for _, channel := range channels {
		if channel.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		options = append(options, discordgo.SelectMenuOption{
			Label: "#" + channel.Name,
			Value: channel.ID,
		})
		if len(options) == 25 {
			break
		}
	}

	if len(options) == 0 {
		respond(s, i, responses.Ephemeral("No text channels found in this guild."))
		return
	}

	respond(s, i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: placeholder,
			Components: []discordgo.MessageComponent{discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{discordgo.SelectMenu{
					CustomID:    customID,
					Placeholder: placeholder,
					Options:     options,
				}},
			}},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

func channelSelect(deps *Deps, s *discordgo.Session, i *discordgo.InteractionCreate, channelID string, training bool) {
	var err error
	if training {
		err = deps.Store.SetTrainingChannel(i.GuildID, channelID)
	} else {
		err = deps.Store.SetLoaChannel(i.GuildID, channelID)
	}
	if err != nil {
		respondStoreError(s, i, err)
		return
	}

	label := "LOA"
	if training {
		label = "Training"
	}
	respond(s, i, responses.Ephemeral(fmt.Sprintf("%s channel successfully set to <#%s>.", label, channelID)))
}

func checkChannel(deps *Deps, s *discordgo.Session, i *discordgo.InteractionCreate, training bool) {
	settings, err := deps.Store.Settings(i.GuildID)
	if err != nil {
		respondStoreError(s, i, err)
		return
	}

	channelID, label := settings.LoaChannelId, "LOA"
	if training {
		channelID, label = settings.TrainingChannelId, "Training"
	}

	if channelID == "" {
		respond(s, i, responses.Ephemeral(fmt.Sprintf("No %s channel set", label)))
		return
	}
	respond(s, i, responses.Ephemeral(fmt.Sprintf("Current %s channel: <#%s>", label, channelID)))
}

func scanChannel(deps *Deps, s *discordgo.Session, i *discordgo.InteractionCreate, training bool) {
	if !deps.Store.Connected() {
		respond(s, i, responses.Ephemeral("Configure channel and database first"))
		return
	}

	settings, err := deps.Store.Settings(i.GuildID)
	if err != nil {
		respondStoreError(s, i, err)
		return
	}

	channelID := settings.LoaChannelId
	if training {
		channelID = settings.TrainingChannelId
	}
	if channelID == "" {
		respond(s, i, responses.Ephemeral("Configure channel and database first"))
		return
	}

	respond(s, i, responses.Ephemeral("Scanning messages..."))

	msgs, err := s.ChannelMessages(channelID, 100, "", "", "")
	if err != nil {
		log.Error().Err(err).Str("channel_id", channelID).Msg("Failed to fetch channel history")
		followupEphemeral(s, i, "Failed to fetch channel messages")
		return
	}

	guild := guildFromState(s, i.GuildID)
	resolve := sessionResolver(s, i.GuildID)

	var summary scan.Summary
	if training {
		summary = scan.ImportTrainingHistory(deps.Store, guild, channelID, msgs, resolve)
	} else {
		summary = scan.ImportLeaveHistory(deps.Store, guild, msgs, resolve)
	}

	followupEphemeral(s, i, fmt.Sprintf("Import complete - %d imported, %d skipped", summary.Imported, summary.Skipped))
}

func debugDB(deps *Deps, s *discordgo.Session, i *discordgo.InteractionCreate) {
	count, err := deps.Store.LeaveCount(i.GuildID)
	if err != nil {
		if errors.Is(err, store.ErrNotConnected) {
			respond(s, i, responses.Ephemeral("Database not connected"))
			return
		}
		respondStoreError(s, i, err)
		return
	}

	respond(s, i, responses.Ephemeral(fmt.Sprintf("%d LOA records found", count)))
}

func listTypeSelect(s *discordgo.Session, i *discordgo.InteractionCreate, value string) {
	var embed *discordgo.MessageEmbed
	var menu discordgo.SelectMenu

	switch value {
	case "loa":
		options := make([]discordgo.SelectMenuOption, 0, len(roles.Teams))
		for _, team := range roles.Teams {
			options = append(options, discordgo.SelectMenuOption{Label: team, Value: team})
		}
		menu = discordgo.SelectMenu{
			CustomID:    "loa_list_team_select",
			Placeholder: "Select a team",
			Options:     options,
		}
		embed = &discordgo.MessageEmbed{
			Title: "LOA Management",
			Color: embedColor,
			Fields: []*discordgo.MessageEmbedField{{
				Name:  "Usage",
				Value: "Select a team to see its members on LOA.",
			}},
		}
	case "training":
		options := make([]discordgo.SelectMenuOption, 0, len(lists.TrainingStatuses))
		for _, status := range lists.TrainingStatuses {
			options = append(options, discordgo.SelectMenuOption{
				Label: capitalize(status) + " Requests",
				Value: status,
			})
		}
		menu = discordgo.SelectMenu{
			CustomID:    "training_list_status_select",
			Placeholder: "Select a status",
			Options:     options,
		}
		embed = &discordgo.MessageEmbed{
			Title: "Training Requests Management",
			Color: embedColor,
			Fields: []*discordgo.MessageEmbedField{{
				Name:  "Usage",
				Value: "Select a status to see members with requests in it.",
			}},
		}
	default:
		return
	}

	respond(s, i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Components: []discordgo.MessageComponent{discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{menu},
			}},
		},
	})
}

func leaveDetailSelect(deps *Deps, s *discordgo.Session, i *discordgo.InteractionCreate, team, userID string) {
	loa, err := deps.Store.LatestLeave(i.GuildID, userID, team)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond(s, i, responses.Ephemeral("No LOA found for this user in the team."))
			return
		}
		respondStoreError(s, i, err)
		return
	}

	total := "0"
	if stats, err := deps.Store.StatsFor(i.GuildID, userID); err == nil && stats != nil {
		total = fmt.Sprintf("%d", stats.LoaCount)
	}

	embed := &discordgo.MessageEmbed{
		Title: "LOA Details",
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Team Name", Value: team, Inline: true},
			{Name: "User", Value: loa.Username, Inline: true},
			{Name: "Last loa start time", Value: loa.Start, Inline: true},
			{Name: "Last loa end time", Value: loa.End, Inline: true},
			{Name: "Job", Value: loa.Job, Inline: true},
			{Name: "Total loa's", Value: total, Inline: true},
		},
	}

	respond(s, i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: []discordgo.MessageComponent{},
		},
	})
}

func trainingDetailSelect(deps *Deps, s *discordgo.Session, i *discordgo.InteractionCreate, status, userID string) {
	request, err := deps.Store.LatestTraining(i.GuildID, userID, status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond(s, i, responses.Ephemeral("No request found for this user in the status."))
			return
		}
		respondStoreError(s, i, err)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "Training Request Details",
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: request.Username, Inline: true},
			{Name: "Rank", Value: request.Rank, Inline: true},
			{Name: "Training", Value: request.Training},
			{Name: "Availability", Value: request.Availability},
			{Name: "Status", Value: capitalize(request.Status), Inline: true},
		},
	}

	respond(s, i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: []discordgo.MessageComponent{},
		},
	})
}
