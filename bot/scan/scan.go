// Package scan imports historical records from fetched channel
// messages. Messages are processed sequentially; one bad message is
// tallied as skipped, never an abort.
package scan

import (
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/NewUser1121/Loa-Bot/bot/dates"
	"github.com/NewUser1121/Loa-Bot/bot/roles"
	"github.com/NewUser1121/Loa-Bot/bot/store"
	"github.com/NewUser1121/Loa-Bot/utils"
)

// Summary tallies one scan run.
type Summary struct {
	Imported int
	Skipped  int
}

// MemberResolver resolves a user id to the guild member and its
// lower-cased role names. A nil member means the author left or was
// never a member; the message is skipped.
type MemberResolver func(userID string) (*discordgo.Member, []string, error)

// ImportLeaveHistory walks fetched messages and records every leave
// period it can extract. Human messages are parsed from their text;
// bot messages from their embeds, recovering the real author from the
// embed's mention.
func ImportLeaveHistory(st *store.Store, guild *discordgo.Guild, msgs []*discordgo.Message, resolve MemberResolver) Summary {
	var summary Summary

	for _, msg := range msgs {
		if msg.Author == nil {
			summary.Skipped++
			continue
		}

		var period dates.Period
		var ok bool
		if !msg.Author.Bot {
			period, ok = dates.ParseLeavePeriod(msg.Content)
		}
		if !ok {
			for _, embed := range msg.Embeds {
				if period, ok = dates.ParseLeaveEmbed(embed); ok {
					break
				}
			}
		}
		if !ok {
			summary.Skipped++
			continue
		}

		userID := msg.Author.ID
		if msg.Author.Bot && len(msg.Embeds) > 0 {
			if mentioned, ok := dates.AuthorFromMention(msg.Embeds[0].Description); ok {
				userID = mentioned
			}
		}

		member, roleNames, err := resolve(userID)
		if err != nil || member == nil {
			summary.Skipped++
			continue
		}

		res, err := st.RecordLeave(store.LeaveParams{
			GuildId:    guild.ID,
			ServerName: guild.Name,
			UserId:     userID,
			Username:   utils.DisplayName(member.User),
			Job:        roles.Job(roleNames),
			Team:       roles.Team(roleNames),
			Start:      period.Start,
			End:        period.End,
			MessageId:  msg.ID,
		})
		switch {
		case err != nil:
			log.Error().Err(err).Str("message_id", msg.ID).Msg("Leave import failed")
			summary.Skipped++
		case res.AlreadyExists:
			summary.Skipped++
		default:
			summary.Imported++
		}
	}

	return summary
}

// ImportTrainingHistory walks fetched messages and records every
// training request it can extract from plain text.
func ImportTrainingHistory(st *store.Store, guild *discordgo.Guild, channelID string, msgs []*discordgo.Message, resolve MemberResolver) Summary {
	var summary Summary

	for _, msg := range msgs {
		if msg.Author == nil {
			summary.Skipped++
			continue
		}

		parsed, ok := dates.ParseTrainingRequest(msg.Content)
		if !ok {
			summary.Skipped++
			continue
		}

		member, _, err := resolve(msg.Author.ID)
		if err != nil || member == nil {
			summary.Skipped++
			continue
		}

		res, err := st.RecordTraining(store.TrainingParams{
			GuildId:      guild.ID,
			UserId:       msg.Author.ID,
			Username:     utils.DisplayName(member.User),
			Rank:         parsed.Rank,
			Training:     parsed.Training,
			Availability: parsed.Availability,
			MessageId:    msg.ID,
			ChannelId:    channelID,
		})
		switch {
		case err != nil:
			log.Error().Err(err).Str("message_id", msg.ID).Msg("Training import failed")
			summary.Skipped++
		case res.AlreadyExists:
			summary.Skipped++
		default:
			summary.Imported++
		}
	}

	return summary
}
