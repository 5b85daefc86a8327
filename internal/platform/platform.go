// Package platform describes the remote guild API the engine drives. Reads
// return discordgo wire types; every call may fail with a juju/errors kind:
// NotFound for an unknown handle, Forbidden when the caller lacks
// permission, BadRequest for any other rejection.
package platform

import (
	"math"

	"github.com/bwmarrin/discordgo"
)

// FeatureCommunity gates announcement, stage, forum and media channels.
const FeatureCommunity discordgo.GuildFeature = "COMMUNITY"

// GuildSettings is the body of a guild edit. Nil moderation fields are left
// untouched on the remote; a non-nil zero is sent as zero.
type GuildSettings struct {
	Name                        string `json:"name,omitempty"`
	Icon                        string `json:"icon,omitempty"`
	Banner                      string `json:"banner,omitempty"`
	VerificationLevel           *int   `json:"verification_level,omitempty"`
	DefaultMessageNotifications *int   `json:"default_message_notifications,omitempty"`
	ExplicitContentFilter       *int   `json:"explicit_content_filter,omitempty"`
	AFKTimeout                  *int   `json:"afk_timeout,omitempty"`
}

type PlatformInterface interface {
	Guild(guildID string) (*discordgo.Guild, error)
	// Self returns the engine's own membership in the guild.
	Self(guildID string) (*discordgo.Member, error)
	Roles(guildID string) ([]*discordgo.Role, error)
	Channels(guildID string) ([]*discordgo.Channel, error)
	Emojis(guildID string) ([]*discordgo.Emoji, error)

	// CreateGuild creates an empty guild owned by the engine's account.
	CreateGuild(name string) (*discordgo.Guild, error)
	EditGuild(guildID string, settings *GuildSettings) error
	CreateRole(guildID string, params *discordgo.RoleParams) (*discordgo.Role, error)
	DeleteRole(guildID, roleID string) error
	ReorderRoles(guildID string, roles []*discordgo.Role) error
	CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)
	DeleteChannel(channelID string) error
	CreateEmoji(guildID string, params *discordgo.EmojiParams) error

	// ImageData resolves an image reference into a data URI accepted by the
	// create and edit calls.
	ImageData(reference string) (string, error)
}

// IsCategory reports whether a remote channel is a category container.
func IsCategory(ch *discordgo.Channel) bool {
	return ch.Type == discordgo.ChannelTypeGuildCategory
}

// IsThread reports whether a remote channel is a thread, which is not part of
// the guild structure.
func IsThread(ch *discordgo.Channel) bool {
	switch ch.Type {
	case discordgo.ChannelTypeGuildNewsThread,
		discordgo.ChannelTypeGuildPublicThread,
		discordgo.ChannelTypeGuildPrivateThread:
		return true
	}
	return false
}

// HasFeature reports whether the guild advertises the given feature.
func HasFeature(g *discordgo.Guild, feature discordgo.GuildFeature) bool {
	for _, f := range g.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// TopRolePosition returns the highest position among the member's roles.
// roles is the guild's full role list.
func TopRolePosition(member *discordgo.Member, roles []*discordgo.Role) int {
	byID := make(map[string]*discordgo.Role, len(roles))
	for _, r := range roles {
		byID[r.ID] = r
	}
	top := 0
	for _, id := range member.Roles {
		if r, ok := byID[id]; ok && r.Position > top {
			top = r.Position
		}
	}
	return top
}

// RoleCeiling returns the position a role must sit strictly below for member
// to delete or edit it. The guild owner outranks every role.
func RoleCeiling(g *discordgo.Guild, member *discordgo.Member, roles []*discordgo.Role) int {
	if member.User != nil && member.User.ID != "" && member.User.ID == g.OwnerID {
		return math.MaxInt
	}
	return TopRolePosition(member, roles)
}

// MaxBitrate is the voice bitrate ceiling for a guild boost tier.
func MaxBitrate(tier discordgo.PremiumTier) int {
	switch tier {
	case discordgo.PremiumTier1:
		return 128000
	case discordgo.PremiumTier2:
		return 256000
	case discordgo.PremiumTier3:
		return 384000
	default:
		return 96000
	}
}
