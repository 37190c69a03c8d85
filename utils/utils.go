package utils

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

func MessageURL(guildId, channelId, messageId string) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildId, channelId, messageId)
}

// DisplayName renders a user as "username#discriminator", dropping the
// trailing "#" for accounts without a discriminator.
func DisplayName(user *discordgo.User) string {
	if user == nil {
		return ""
	}
	return strings.TrimSuffix(fmt.Sprintf("%s#%s", user.Username, user.Discriminator), "#")
}

// ParseRecordId reads the record id off the end of a component custom
// id like "loa_cancel_42".
func ParseRecordId(customID string) (uint, bool) {
	idx := strings.LastIndex(customID, "_")
	if idx < 0 || idx == len(customID)-1 {
		return 0, false
	}

	var id uint
	if _, err := fmt.Sscanf(customID[idx+1:], "%d", &id); err != nil {
		return 0, false
	}

	return id, true
}
