// Package events handles gateway events outside the interaction flow.
package events

import (
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/NewUser1121/Loa-Bot/bot/dates"
	"github.com/NewUser1121/Loa-Bot/bot/handlers"
	"github.com/NewUser1121/Loa-Bot/bot/roles"
	"github.com/NewUser1121/Loa-Bot/bot/store"
	"github.com/NewUser1121/Loa-Bot/utils"
)

// MessageCreateHandler watches the configured LOA channel and records
// any message that reads like a leave period, so members who type
// their LOA instead of using the modal are still counted.
func MessageCreateHandler(deps *handlers.Deps) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot || m.GuildID == "" {
			return
		}

		if !deps.Store.Connected() {
			return
		}

		settings, err := deps.Store.Settings(m.GuildID)
		if err != nil {
			log.Error().Err(err).Str("guild_id", m.GuildID).Msg("Failed to load guild settings")
			return
		}
		if settings.LoaChannelId == "" || settings.LoaChannelId != m.ChannelID {
			return
		}

		period, ok := dates.ParseLeavePeriod(m.Content)
		if !ok {
			return
		}

		member := m.Member
		if member == nil {
			member, err = s.GuildMember(m.GuildID, m.Author.ID)
			if err != nil {
				log.Warn().Err(err).Str("user_id", m.Author.ID).Msg("Could not resolve message author")
				return
			}
		}
		if member.User == nil {
			member.User = m.Author
		}
		roleNames := roles.MemberRoles(s, m.GuildID, member)

		var serverName string
		if guild, err := s.State.Guild(m.GuildID); err == nil {
			serverName = guild.Name
		}

		_, err = deps.Store.RecordLeave(store.LeaveParams{
			GuildId:    m.GuildID,
			ServerName: serverName,
			UserId:     m.Author.ID,
			Username:   utils.DisplayName(m.Author),
			Job:        roles.Job(roleNames),
			Team:       roles.Team(roleNames),
			Start:      period.Start,
			End:        period.End,
			MessageId:  m.ID,
		})
		if err != nil {
			log.Error().Err(err).Str("message_id", m.ID).Msg("Failed to record channel LOA")
		}
	}
}
