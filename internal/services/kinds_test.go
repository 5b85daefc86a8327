package services

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"guildcloner/internal/models"
)

func TestKindFromType(t *testing.T) {
	cases := map[discordgo.ChannelType]models.ChannelKind{
		discordgo.ChannelTypeGuildText:       models.KindText,
		discordgo.ChannelTypeGuildVoice:      models.KindVoice,
		discordgo.ChannelTypeGuildCategory:   models.KindCategory,
		discordgo.ChannelTypeGuildNews:       models.KindAnnouncement,
		discordgo.ChannelTypeGuildStageVoice: models.KindStage,
		discordgo.ChannelTypeGuildForum:      models.KindForum,
		channelTypeGuildMedia:                models.KindMedia,
		channelTypeGuildStore:                models.KindStore,
		channelTypeGuildDirectory:            models.KindDirectory,
	}
	for in, want := range cases {
		assert.Equal(t, want, kindFromType(in), "type %d", in)
	}

	unknown := kindFromType(99)
	assert.Equal(t, models.ChannelKind("unknown:99"), unknown)
	assert.True(t, isUnknownKind(unknown))
	assert.False(t, isUnknownKind(models.KindText))
}

func TestTargetType(t *testing.T) {
	cases := []struct {
		kind       models.ChannelKind
		community  bool
		want       discordgo.ChannelType
		downgraded bool
		ok         bool
	}{
		{models.KindText, false, discordgo.ChannelTypeGuildText, false, true},
		{models.KindVoice, false, discordgo.ChannelTypeGuildVoice, false, true},
		{models.KindCategory, false, discordgo.ChannelTypeGuildCategory, false, true},
		{models.KindAnnouncement, true, discordgo.ChannelTypeGuildNews, false, true},
		{models.KindAnnouncement, false, discordgo.ChannelTypeGuildText, true, true},
		{models.KindForum, true, discordgo.ChannelTypeGuildForum, false, true},
		{models.KindForum, false, discordgo.ChannelTypeGuildText, true, true},
		{models.KindMedia, false, discordgo.ChannelTypeGuildText, true, true},
		{models.KindStage, true, discordgo.ChannelTypeGuildStageVoice, false, true},
		{models.KindStage, false, discordgo.ChannelTypeGuildVoice, true, true},
		{models.KindStore, true, discordgo.ChannelTypeGuildText, true, true},
		{models.KindDirectory, true, 0, false, false},
		{models.ChannelKind("unknown:42"), true, 0, false, false},
	}
	for _, tc := range cases {
		got, downgraded, ok := targetType(tc.kind, tc.community)
		assert.Equal(t, tc.ok, ok, "%s community=%v", tc.kind, tc.community)
		assert.Equal(t, tc.downgraded, downgraded, "%s community=%v", tc.kind, tc.community)
		if tc.ok {
			assert.Equal(t, tc.want, got, "%s community=%v", tc.kind, tc.community)
		}
	}
}
