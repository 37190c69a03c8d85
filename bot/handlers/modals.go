package handlers

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/NewUser1121/Loa-Bot/bot/responses"
	"github.com/NewUser1121/Loa-Bot/bot/roles"
	"github.com/NewUser1121/Loa-Bot/bot/store"
	"github.com/NewUser1121/Loa-Bot/utils"
)

const leaveEmbedColor = 11092453

func textInputRow(customID, label string, style discordgo.TextInputStyle, placeholder string) discordgo.ActionsRow {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:    customID,
				Label:       label,
				Style:       style,
				Placeholder: placeholder,
				Required:    true,
			},
		},
	}
}

func leaveSubmitModal() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: "loa_submit_modal",
			Title:    "Submit Leave of Absence",
			Components: []discordgo.MessageComponent{
				textInputRow("timestart", "Start Date", discordgo.TextInputShort, "e.g., 10/28/2025"),
				textInputRow("timeend", "End Date", discordgo.TextInputShort, "e.g., 11/5/2025"),
				textInputRow("reason", "Reason", discordgo.TextInputParagraph, ""),
			},
		},
	}
}

func trainingSubmitModal() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: "training_submit_modal",
			Title:    "Submit Training Request",
			Components: []discordgo.MessageComponent{
				textInputRow("training", "Training", discordgo.TextInputShort, "e.g., M45A Semi Auto Shotgun qual"),
				textInputRow("availability", "Availability", discordgo.TextInputParagraph, "e.g., after 2000 CST Monday all day Tuesday"),
			},
		},
	}
}

func trainerRegisterModal() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: "trainer_register_modal",
			Title:    "Register as Trainer",
			Components: []discordgo.MessageComponent{
				textInputRow("specialties", "Specialties", discordgo.TextInputParagraph, "e.g., M45A, Combat Engineer"),
				textInputRow("availability", "Availability", discordgo.TextInputParagraph, "e.g., Weekdays after 7PM EST"),
			},
		},
	}
}

func leaveSubmit(deps *Deps, s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ModalSubmitInteractionData) {
	inputs := modalInputs(data)
	start, end, reason := inputs["timestart"], inputs["timeend"], inputs["reason"]
	user := i.Member.User

	if deps.Store.Connected() {
		existing, err := deps.Store.FindLeaveByContent(i.GuildID, user.ID, start, end)
		if err != nil {
			respondStoreError(s, i, err)
			return
		}
		if existing != nil {
			respond(s, i, responses.Ephemeral("An LOA with those dates already exists"))
			return
		}
	}

	embed := &discordgo.MessageEmbed{
		Description: fmt.Sprintf("<@%s>", user.ID),
		Color:       leaveEmbedColor,
		Author:      &discordgo.MessageEmbedAuthor{Name: "Leave Of Absence"},
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("1024")},
		Fields: []*discordgo.MessageEmbedField{{
			Name:  "Time",
			Value: fmt.Sprintf("**Start:** %s\n**End:** %s\n**Reason:** __%s__", start, end, reason),
		}},
	}

	sent := replyOrPost(s, i, embed, &discordgo.MessageAllowedMentions{Users: []string{user.ID}})
	if sent == nil || !deps.Store.Connected() {
		return
	}

	guild := guildFromState(s, i.GuildID)
	roleNames := roles.MemberRoles(s, i.GuildID, i.Member)

	res, err := deps.Store.RecordLeave(store.LeaveParams{
		GuildId:    i.GuildID,
		ServerName: guild.Name,
		UserId:     user.ID,
		Username:   utils.DisplayName(user),
		Job:        roles.Job(roleNames),
		Team:       roles.Team(roleNames),
		Start:      start,
		End:        end,
		MessageId:  sent.ID,
	})
	if err != nil {
		log.Error().Err(err).Str("guild_id", i.GuildID).Str("user_id", user.ID).Msg("Failed to save LOA")
		followupEphemeral(s, i, fmt.Sprintf("Failed to save LOA: %v", err))
		return
	}

	row := discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{
			CustomID: fmt.Sprintf("loa_cancel_%d", res.Loa.ID),
			Label:    "Cancel",
			Style:    discordgo.SecondaryButton,
		},
	}}
	editComponents(s, sent.ChannelID, sent.ID, []discordgo.MessageComponent{row})
}

func trainingSubmit(deps *Deps, s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ModalSubmitInteractionData) {
	inputs := modalInputs(data)
	training, availability := inputs["training"], inputs["availability"]
	user := i.Member.User

	roleNames := roles.MemberRoles(s, i.GuildID, i.Member)
	rank := roles.Rank(roleNames, i.Member.Nick, user.Username)

	embed := &discordgo.MessageEmbed{
		Title:       "Training Request",
		Description: fmt.Sprintf("<@%s>", user.ID),
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Rank", Value: rank, Inline: true},
			{Name: "Training", Value: training, Inline: true},
			{Name: "Availability", Value: availability},
			{Name: "Status", Value: "Pending", Inline: true},
		},
	}

	sent := replyOrPost(s, i, embed, nil)
	if sent == nil || !deps.Store.Connected() {
		return
	}

	res, err := deps.Store.RecordTraining(store.TrainingParams{
		GuildId:      i.GuildID,
		UserId:       user.ID,
		Username:     utils.DisplayName(user),
		Rank:         rank,
		Training:     training,
		Availability: availability,
		MessageId:    sent.ID,
		ChannelId:    sent.ChannelID,
	})
	if err != nil {
		log.Error().Err(err).Str("guild_id", i.GuildID).Str("user_id", user.ID).Msg("Failed to save training request")
		followupEphemeral(s, i, fmt.Sprintf("Failed to save Training Request: %v", err))
		return
	}

	row := discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{
			CustomID: fmt.Sprintf("training_cancel_%d", res.Request.ID),
			Label:    "Cancel",
			Style:    discordgo.SecondaryButton,
		},
		discordgo.Button{
			CustomID: fmt.Sprintf("training_set_scheduled_%d", res.Request.ID),
			Label:    "Sched.",
			Style:    discordgo.SecondaryButton,
		},
		discordgo.Button{
			CustomID: fmt.Sprintf("training_set_completed_%d", res.Request.ID),
			Label:    "Compl.",
			Style:    discordgo.SecondaryButton,
		},
	}}
	editComponents(s, sent.ChannelID, sent.ID, []discordgo.MessageComponent{row})

	if res.AlreadyExists {
		return
	}

	notifyTrainers(deps, s, i.GuildID, user.ID, training, availability, sent)
}

// notifyTrainers DMs every matching trainer about a new request. DM
// failures (closed DMs, left server) are logged and skipped.
func notifyTrainers(deps *Deps, s *discordgo.Session, guildID, requesterID, training, availability string, sent *discordgo.Message) {
	matches, err := deps.Store.FindMatchingTrainers(guildID, training, availability)
	if err != nil {
		log.Error().Err(err).Str("guild_id", guildID).Msg("Failed to match trainers")
		return
	}

	for _, match := range matches {
		channel, err := s.UserChannelCreate(match.UserId)
		if err != nil {
			log.Warn().Err(err).Str("trainer_id", match.UserId).Msg("Could not open trainer DM")
			continue
		}
		_, err = s.ChannelMessageSend(channel.ID, fmt.Sprintf(
			"New training request: %s - Availability: %s from <@%s>. Link: %s",
			training, availability, requesterID, utils.MessageURL(guildID, sent.ChannelID, sent.ID),
		))
		if err != nil {
			log.Warn().Err(err).Str("trainer_id", match.UserId).Msg("Could not DM trainer")
		}
	}
}

func trainerRegister(deps *Deps, s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ModalSubmitInteractionData) {
	inputs := modalInputs(data)
	user := i.Member.User

	_, err := deps.Store.RegisterTrainer(store.TrainerParams{
		GuildId:      i.GuildID,
		UserId:       user.ID,
		Username:     user.Username,
		Specialties:  inputs["specialties"],
		Availability: inputs["availability"],
	})
	if err != nil {
		respondStoreError(s, i, err)
		return
	}

	respond(s, i, responses.Ephemeral("Trainer registration updated!"))
}

// replyOrPost delivers the record embed: the interaction reply first,
// a plain channel post when the interaction is already dead. Returns
// the sent message, nil when both paths failed.
func replyOrPost(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, mentions *discordgo.MessageAllowedMentions) *discordgo.Message {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:          []*discordgo.MessageEmbed{embed},
			AllowedMentions: mentions,
		},
	})
	if err == nil {
		sent, err := s.InteractionResponse(i.Interaction)
		if err != nil {
			log.Error().Err(err).Str("interaction_id", i.ID).Msg("Failed to fetch interaction reply")
			return nil
		}
		return sent
	}

	sent, sendErr := s.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
		Embeds:          []*discordgo.MessageEmbed{embed},
		AllowedMentions: mentions,
	})
	if sendErr != nil {
		log.Error().Err(sendErr).Str("channel_id", i.ChannelID).Msg("Failed to deliver submission message")
		return nil
	}

	return sent
}

func editComponents(s *discordgo.Session, channelID, messageID string, components []discordgo.MessageComponent) {
	_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID,
		ID:         messageID,
		Components: components,
	})
	if err != nil {
		log.Error().Err(err).Str("message_id", messageID).Msg("Failed to attach message buttons")
	}
}
