// Package roles maps guild role names onto the regiment's job, team,
// rank and permission structure.
package roles

import (
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Default is returned when a member carries none of the known roles.
const Default = "Undefined"

// SuperAdmin bypasses the permission role check everywhere.
const SuperAdmin = "kaleb6768"

var Jobs = []string{
	"Light Infantry",
	"Mechanized Infantry",
	"Force Recon",
	"Airborne",
}

var Teams = []string{
	"Nomad 1-1",
	"Odin 3-1",
	"Pathfinder 5-1",
	"Ronin 7-1",
	"Overflow Regiment 9-1",
	"Tempest 1-3",
	"Naval Lance 1-4",
}

var Permissions = []string{
	"Company CO", "Company XO", "Company Corpsman", "Company Tech Spec.",
	"Wing CO", "Wing XO",
	"Platoon Leader", "Platoon XO", "Platoon Corpsman", "Platoon Tech Spec.", "Platoon Combat Aviator",
	"Squadron CO", "Squadron XO",
	"Team Leader", "Flight Team Leader", "Flight Team XO",
}

var Ranks = []string{
	"Rct", "Pvt", "Pfc", "Lcpl", "Cpl", "Sgt", "SSgt", "GySgt", "MSgt",
	"1stSgt", "SgtMaj", "2ndLt", "1stLt", "Capt", "Maj", "LtCol", "Col", "LCpl",
}

var nonLetterRe = regexp.MustCompile(`[^a-z]`)

// MemberRoles resolves a member's role ids to lower-cased role names.
func MemberRoles(s *discordgo.Session, guildID string, member *discordgo.Member) []string {
	if member == nil {
		return nil
	}

	guild, err := s.State.Guild(guildID)
	if err != nil {
		guild, err = s.Guild(guildID)
		if err != nil {
			return nil
		}
	}

	byID := make(map[string]string, len(guild.Roles))
	for _, role := range guild.Roles {
		byID[role.ID] = role.Name
	}

	names := make([]string, 0, len(member.Roles))
	for _, id := range member.Roles {
		if name, ok := byID[id]; ok {
			names = append(names, strings.ToLower(name))
		}
	}

	return names
}

func findRole(memberRoles, valid []string) string {
	for _, candidate := range valid {
		lower := strings.ToLower(candidate)
		for _, role := range memberRoles {
			if role == lower {
				return candidate
			}
		}
	}
	return Default
}

// Job returns the member's job role, or Default.
func Job(memberRoles []string) string {
	return findRole(memberRoles, Jobs)
}

// Team returns the member's team role, or Default.
func Team(memberRoles []string) string {
	return findRole(memberRoles, Teams)
}

// Rank returns the member's rank role. When no rank role is present it
// falls back to the first word of the nickname (or username), which
// members conventionally prefix with their rank.
func Rank(memberRoles []string, nickname, username string) string {
	rank := findRole(memberRoles, Ranks)
	if rank != Default {
		return rank
	}

	name := nickname
	if name == "" {
		name = username
	}

	words := strings.Fields(name)
	if len(words) == 0 {
		return rank
	}

	potential := nonLetterRe.ReplaceAllString(strings.ToLower(words[0]), "")
	for _, known := range Ranks {
		if strings.ToLower(known) == potential {
			return strings.ToUpper(potential)
		}
	}

	return rank
}

// HasPermission reports whether the member may run privileged
// operations: either the hardcoded super-admin or a holder of one of
// the leadership roles.
func HasPermission(username string, memberRoles []string) bool {
	if username == SuperAdmin {
		return true
	}

	for _, perm := range Permissions {
		lower := strings.ToLower(perm)
		for _, role := range memberRoles {
			if role == lower {
				return true
			}
		}
	}

	return false
}
