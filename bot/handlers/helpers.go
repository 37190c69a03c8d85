package handlers

import (
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/NewUser1121/Loa-Bot/bot/lists"
	"github.com/NewUser1121/Loa-Bot/bot/responses"
	"github.com/NewUser1121/Loa-Bot/bot/roles"
	"github.com/NewUser1121/Loa-Bot/bot/scan"
	"github.com/NewUser1121/Loa-Bot/bot/store"
)

const embedColor = 0x00ae86

// defaultWindow is the bucket a fresh team selection opens on.
const defaultWindow = lists.WindowWeek

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, resp *discordgo.InteractionResponse) {
	if err := s.InteractionRespond(i.Interaction, resp); err != nil {
		log.Error().Err(err).Str("interaction_id", i.ID).Msg("Failed to respond to interaction")
	}
}

func followupEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Error().Err(err).Str("interaction_id", i.ID).Msg("Failed to send follow-up")
	}
}

// respondStoreError answers a failed store call, keeping "database not
// attached" distinguishable from an actual bug.
func respondStoreError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	if errors.Is(err, store.ErrNotConnected) {
		respond(s, i, responses.Ephemeral("Database connection not available"))
		return
	}
	log.Error().Err(err).Str("interaction_id", i.ID).Msg("Store operation failed")
	respond(s, i, responses.GenericErrorResponse)
}

func modalInputs(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, component := range actionsRow.Components {
			if input, ok := component.(*discordgo.TextInput); ok {
				values[input.CustomID] = input.Value
			}
		}
	}
	return values
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func guildFromState(s *discordgo.Session, guildID string) *discordgo.Guild {
	guild, err := s.State.Guild(guildID)
	if err == nil {
		return guild
	}

	guild, err = s.Guild(guildID)
	if err == nil {
		return guild
	}

	return &discordgo.Guild{ID: guildID}
}

func sessionResolver(s *discordgo.Session, guildID string) scan.MemberResolver {
	return func(userID string) (*discordgo.Member, []string, error) {
		member, err := s.GuildMember(guildID, userID)
		if err != nil {
			return nil, nil, err
		}
		return member, roles.MemberRoles(s, guildID, member), nil
	}
}
