package store

import (
	"fmt"
	"strings"

	"github.com/NewUser1121/Loa-Bot/bot/models"
)

var specialtyWildcards = []string{"everything", "all", "any"}

var availabilityWildcards = []string{"anytime", "always", "any", "all"}

// FindMatchingTrainers returns the guild's trainers whose specialties
// cover the requested training and whose availability overlaps the
// requested availability. Both checks are case-folded substring
// heuristics; trainers come back in registration order, unranked.
func (s *Store) FindMatchingTrainers(guildID, training, availability string) ([]models.Trainer, error) {
	if !s.Connected() {
		return nil, ErrNotConnected
	}

	var trainers []models.Trainer
	if err := s.db.Where(&models.Trainer{GuildId: guildID}).Order("id").Find(&trainers).Error; err != nil {
		return nil, fmt.Errorf("failed to list trainers: %w", err)
	}

	var matched []models.Trainer
	for _, trainer := range trainers {
		if specialtyMatches(trainer.Specialties, training) && availabilityMatches(trainer.Availability, availability) {
			matched = append(matched, trainer)
		}
	}

	return matched, nil
}

func specialtyMatches(specialties, training string) bool {
	specialties = strings.ToLower(specialties)

	if strings.Contains(specialties, strings.ToLower(training)) {
		return true
	}

	return containsAny(specialties, specialtyWildcards)
}

// availabilityMatches compares against the first three words of the
// requested availability: members tend to lead with the concrete
// time ("after 2000 CST ...") before the free-form rest.
func availabilityMatches(trainerAvailability, requested string) bool {
	trainerAvailability = strings.ToLower(trainerAvailability)

	words := strings.Fields(strings.ToLower(requested))
	if len(words) > 3 {
		words = words[:3]
	}
	if strings.Contains(trainerAvailability, strings.Join(words, " ")) {
		return true
	}

	return containsAny(trainerAvailability, availabilityWildcards)
}

func containsAny(text string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(text, token) {
			return true
		}
	}
	return false
}
