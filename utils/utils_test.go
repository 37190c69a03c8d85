package utils

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestMessageURL(t *testing.T) {
	assert.Equal(t,
		"https://discord.com/channels/g1/c1/m1",
		MessageURL("g1", "c1", "m1"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "smith#1234", DisplayName(&discordgo.User{Username: "smith", Discriminator: "1234"}))
	assert.Equal(t, "smith", DisplayName(&discordgo.User{Username: "smith"}))
	assert.Equal(t, "", DisplayName(nil))
}

func TestParseRecordId(t *testing.T) {
	id, ok := ParseRecordId("loa_cancel_42")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	id, ok = ParseRecordId("training_set_scheduled_7")
	assert.True(t, ok)
	assert.Equal(t, uint(7), id)

	_, ok = ParseRecordId("loa_cancel_")
	assert.False(t, ok)

	_, ok = ParseRecordId("nounderscore")
	assert.False(t, ok)

	_, ok = ParseRecordId("loa_cancel_abc")
	assert.False(t, ok)
}
