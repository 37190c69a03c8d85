package handlers

import (
	"github.com/bwmarrin/discordgo"

	"github.com/NewUser1121/Loa-Bot/bot/lists"
)

// interactionTarget delivers list views through a component
// interaction: update the triggering message, or fall back to editing
// the original response once the update window has passed.
type interactionTarget struct {
	s *discordgo.Session
	i *discordgo.InteractionCreate
}

func (t interactionTarget) UpdateInPlace(view *lists.View) error {
	return t.s.InteractionRespond(t.i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{view.Embed},
			Components: view.Components,
		},
	})
}

func (t interactionTarget) EditPreviousResponse(view *lists.View) error {
	embeds := []*discordgo.MessageEmbed{view.Embed}
	components := view.Components
	_, err := t.s.InteractionResponseEdit(t.i.Interaction, &discordgo.WebhookEdit{
		Embeds:     &embeds,
		Components: &components,
	})
	return err
}
