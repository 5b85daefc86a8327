package services

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"guildcloner/internal/models"
)

// Channel types discordgo no longer names or may not name in every release.
const (
	channelTypeGuildStore     discordgo.ChannelType = 6
	channelTypeGuildDirectory discordgo.ChannelType = 14
	channelTypeGuildMedia     discordgo.ChannelType = 16
)

const unknownKindPrefix = "unknown:"

func kindFromType(t discordgo.ChannelType) models.ChannelKind {
	switch t {
	case discordgo.ChannelTypeGuildText:
		return models.KindText
	case discordgo.ChannelTypeGuildVoice:
		return models.KindVoice
	case discordgo.ChannelTypeGuildCategory:
		return models.KindCategory
	case discordgo.ChannelTypeGuildNews:
		return models.KindAnnouncement
	case discordgo.ChannelTypeGuildStageVoice:
		return models.KindStage
	case discordgo.ChannelTypeGuildForum:
		return models.KindForum
	case channelTypeGuildMedia:
		return models.KindMedia
	case channelTypeGuildStore:
		return models.KindStore
	case channelTypeGuildDirectory:
		return models.KindDirectory
	default:
		return models.ChannelKind(unknownKindPrefix + strconv.Itoa(int(t)))
	}
}

// targetType picks the channel type to create on the target. downgraded is
// set when the kind needed a fallback; ok is false when no reasonable
// fallback exists and the channel must be skipped.
func targetType(kind models.ChannelKind, community bool) (t discordgo.ChannelType, downgraded bool, ok bool) {
	switch kind {
	case models.KindText:
		return discordgo.ChannelTypeGuildText, false, true
	case models.KindVoice:
		return discordgo.ChannelTypeGuildVoice, false, true
	case models.KindCategory:
		return discordgo.ChannelTypeGuildCategory, false, true
	case models.KindStore:
		// Store channels were retired by the platform.
		return discordgo.ChannelTypeGuildText, true, true
	case models.KindAnnouncement:
		if community {
			return discordgo.ChannelTypeGuildNews, false, true
		}
		return discordgo.ChannelTypeGuildText, true, true
	case models.KindForum:
		if community {
			return discordgo.ChannelTypeGuildForum, false, true
		}
		return discordgo.ChannelTypeGuildText, true, true
	case models.KindMedia:
		if community {
			return channelTypeGuildMedia, false, true
		}
		return discordgo.ChannelTypeGuildText, true, true
	case models.KindStage:
		if community {
			return discordgo.ChannelTypeGuildStageVoice, false, true
		}
		return discordgo.ChannelTypeGuildVoice, true, true
	}
	return 0, false, false
}

func isVoiceType(t discordgo.ChannelType) bool {
	return t == discordgo.ChannelTypeGuildVoice || t == discordgo.ChannelTypeGuildStageVoice
}

func isUnknownKind(kind models.ChannelKind) bool {
	return strings.HasPrefix(string(kind), unknownKindPrefix)
}
