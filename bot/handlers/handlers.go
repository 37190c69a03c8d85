// Package handlers wires Discord interactions to the record store,
// the extractor and the list filter engine.
package handlers

import (
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"

	"github.com/NewUser1121/Loa-Bot/bot/dedupe"
	"github.com/NewUser1121/Loa-Bot/bot/responses"
	"github.com/NewUser1121/Loa-Bot/bot/roles"
	"github.com/NewUser1121/Loa-Bot/bot/store"
	"github.com/rs/zerolog/log"
)

// ListMessages remembers, per admin, the id of the last list message
// they opened, so follow-up selections land on the right message.
type ListMessages struct {
	mu     sync.Mutex
	byUser map[string]string
}

func NewListMessages() *ListMessages {
	return &ListMessages{byUser: make(map[string]string)}
}

func (l *ListMessages) Set(userID, messageID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byUser[userID] = messageID
}

func (l *ListMessages) Get(userID string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id, ok := l.byUser[userID]
	return id, ok
}

// Deps carries the process-scoped state the handlers operate on.
type Deps struct {
	DB           *gorm.DB
	Store        *store.Store
	Seen         *dedupe.Seen
	ListMessages *ListMessages
}

// InteractionCreateHandler dispatches every inbound interaction.
// Redelivered interactions inside the dedupe window are dropped.
func InteractionCreateHandler(deps *Deps) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if !deps.Seen.Remember(i.ID) {
			return
		}

		// Commands are guild-only; anything without a member is not ours.
		if i.Member == nil || i.Member.User == nil {
			return
		}

		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			switch i.ApplicationCommandData().Name {
			case "65th":
				mainMenuHandler(s, i)
			case "65thconfig":
				adminMenuHandler(s, i)
			case "65thlist":
				listCommandHandler(deps, s, i)
			}
		case discordgo.InteractionModalSubmit:
			modalSubmitHandler(deps, s, i)
		case discordgo.InteractionMessageComponent:
			componentHandler(deps, s, i)
		}
	}
}

func mainMenuHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	menu := discordgo.SelectMenu{
		CustomID:    "main_action_select",
		Placeholder: "Select an action",
		Options: []discordgo.SelectMenuOption{
			{Label: "Submit LOA", Value: "submit_loa", Description: "Submit a Leave of Absence"},
			{Label: "Submit Training Request", Value: "submit_training", Description: "Request training with availability"},
			{Label: "Register as Trainer", Value: "register_trainer", Description: "Register your training specialties and availability"},
		},
	}

	respond(s, i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Title:       "65th Regiment Bot",
				Description: "Select what to do:",
				Color:       embedColor,
			}},
			Components: []discordgo.MessageComponent{discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{menu},
			}},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

func adminMenuHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	menu := discordgo.SelectMenu{
		CustomID:    "loa_admin_select",
		Placeholder: "Choose an admin action",
		Options: []discordgo.SelectMenuOption{
			{Label: "Add LOA Channel", Value: "addchannel", Description: "Pick channel to monitor LOAs"},
			{Label: "Check LOA Channel", Value: "checkchannel", Description: "Show saved LOA channel"},
			{Label: "Scan LOA Channel", Value: "scanchannel", Description: "Import recent LOAs"},
			{Label: "Add Training Channel", Value: "addtrainingchannel", Description: "Pick channel to monitor training requests"},
			{Label: "Check Training Channel", Value: "checktrainingchannel", Description: "Show saved training channel"},
			{Label: "Scan Training Channel", Value: "scantrainingchannel", Description: "Import recent training requests"},
			{Label: "Debug DB", Value: "debugdb", Description: "Show LOA count"},
		},
	}

	respond(s, i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Title:       "Choose which admin command to use",
				Description: "Select an admin action from the dropdown below.",
				Color:       embedColor,
			}},
			Components: []discordgo.MessageComponent{discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{menu},
			}},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

func listCommandHandler(deps *Deps, s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := i.Member.User
	roleNames := roles.MemberRoles(s, i.GuildID, i.Member)

	if !roles.HasPermission(user.Username, roleNames) {
		respond(s, i, responses.Ephemeral("You don't have permission for this command"))
		return
	}

	if !deps.Store.Connected() {
		respond(s, i, responses.Ephemeral("Database connection not available"))
		return
	}

	menu := discordgo.SelectMenu{
		CustomID:    "list_type_select",
		Placeholder: "Select a list type",
		Options: []discordgo.SelectMenuOption{
			{Label: "LOA List", Value: "loa"},
			{Label: "Training Requests List", Value: "training"},
		},
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Title:       "List Management",
				Description: "Select the type of list to view",
				Color:       embedColor,
			}},
			Components: []discordgo.MessageComponent{discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{menu},
			}},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to open list menu")
		return
	}

	if msg, err := s.InteractionResponse(i.Interaction); err == nil {
		deps.ListMessages.Set(user.ID, msg.ID)
	}
}

func componentHandler(deps *Deps, s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	id := data.CustomID

	switch {
	case id == "main_action_select":
		mainActionSelect(s, i, firstValue(data))
	case id == "loa_admin_select":
		adminActionSelect(deps, s, i, firstValue(data))
	case id == "loa_channel_select":
		channelSelect(deps, s, i, firstValue(data), false)
	case id == "training_channel_select":
		channelSelect(deps, s, i, firstValue(data), true)
	case id == "list_type_select":
		listTypeSelect(s, i, firstValue(data))
	case id == "loa_list_team_select":
		runLeaveFilter(deps, s, i, firstValue(data), defaultWindow)
	case id == "training_list_status_select":
		runTrainingFilter(deps, s, i, firstValue(data))
	case strings.HasPrefix(id, "loa_list_user_select_"):
		leaveDetailSelect(deps, s, i, strings.TrimPrefix(id, "loa_list_user_select_"), firstValue(data))
	case strings.HasPrefix(id, "training_list_user_select_"):
		trainingDetailSelect(deps, s, i, strings.TrimPrefix(id, "training_list_user_select_"), firstValue(data))
	case strings.HasPrefix(id, "loa_filter_"):
		leaveFilterButton(deps, s, i, id)
	case strings.HasPrefix(id, "training_filter_"):
		runTrainingFilter(deps, s, i, strings.TrimPrefix(id, "training_filter_"))
	case strings.HasPrefix(id, "loa_cancel_"):
		leaveCancelButton(deps, s, i, id)
	case strings.HasPrefix(id, "training_cancel_"):
		trainingCancelButton(deps, s, i, id)
	case strings.HasPrefix(id, "training_set_"):
		trainingSetButton(deps, s, i, id)
	}
}

func modalSubmitHandler(deps *Deps, s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()

	switch data.CustomID {
	case "loa_submit_modal":
		leaveSubmit(deps, s, i, data)
	case "training_submit_modal":
		trainingSubmit(deps, s, i, data)
	case "trainer_register_modal":
		trainerRegister(deps, s, i, data)
	}
}

func firstValue(data discordgo.MessageComponentInteractionData) string {
	if len(data.Values) == 0 {
		return ""
	}
	return data.Values[0]
}
