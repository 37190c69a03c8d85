package commands

import "github.com/bwmarrin/discordgo"

var noDM = false
var configPermission int64 = discordgo.PermissionAdministrator
var Commands = []*discordgo.ApplicationCommand{
	&mainCommand,
	&configCommand,
	&listCommand,
}

var mainCommand = discordgo.ApplicationCommand{
	Name:         "65th",
	Description:  "65th Regiment Bot",
	DMPermission: &noDM,
}

var configCommand = discordgo.ApplicationCommand{
	Name:                     "65thconfig",
	Description:              "Show admin config menu",
	DMPermission:             &noDM,
	DefaultMemberPermissions: &configPermission,
}

var listCommand = discordgo.ApplicationCommand{
	Name:         "65thlist",
	Description:  "Access different lists",
	DMPermission: &noDM,
}
