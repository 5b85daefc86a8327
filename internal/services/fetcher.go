package services

import (
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"
	"github.com/juju/clock"
	"github.com/juju/errors"

	"guildcloner/internal/models"
	"guildcloner/internal/platform"
	"guildcloner/internal/providers"
)

type FetcherInterface interface {
	// Fetch reads the source guild into a snapshot. Only an unreadable
	// source guild is fatal; every other read failure degrades to a warning.
	Fetch(sourceID string, opts models.Options) (*models.Snapshot, []string, error)
}

type Fetcher struct {
	platform platform.PlatformInterface
	logger   providers.Logger
	clock    clock.Clock
}

func NewFetcher(p platform.PlatformInterface, logger providers.Logger, clk clock.Clock) FetcherInterface {
	return &Fetcher{platform: p, logger: logger, clock: clk}
}

type fetch struct {
	*Fetcher
	guild    *discordgo.Guild
	warnings []string
}

func (f *fetch) warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	f.warnings = append(f.warnings, msg)
	f.logger.Warnf(providers.TypeFetch, "%s", msg)
}

func (f *Fetcher) Fetch(sourceID string, opts models.Options) (*models.Snapshot, []string, error) {
	guild, err := f.platform.Guild(sourceID)
	if err != nil {
		return nil, nil, errors.Annotatef(err, "source guild")
	}
	f.logger.Infof(providers.TypeFetch, "Scraping data from: %s", guild.Name)

	run := &fetch{Fetcher: f, guild: guild}
	snap := &models.Snapshot{
		Version:   models.SnapshotVersion,
		SourceID:  guild.ID,
		Name:      guild.Name,
		CreatedAt: f.clock.Now().UTC(),
	}

	if opts.Settings {
		snap.IconReference = guild.IconURL("")
		snap.BannerReference = guild.BannerURL("")
		snap.Moderation = models.ModerationSettings{
			VerificationLevel:     int(guild.VerificationLevel),
			ExplicitContentFilter: int(guild.ExplicitContentFilter),
			DefaultNotifications:  int(guild.DefaultMessageNotifications),
			AFKTimeout:            guild.AfkTimeout,
		}
	}

	// Roles are always read before channels: overwrites name their subject
	// through this table.
	roleNames := map[string]string{guild.ID: models.EveryoneSubject}
	if opts.Roles || opts.Channels {
		roles := run.roles(roleNames)
		if opts.Roles {
			snap.Roles = roles
		}
	}
	if opts.Channels {
		snap.Channels = run.channels(roleNames)
	}
	if opts.Emoji {
		snap.Emoji = run.emoji()
	}

	f.logger.Infof(providers.TypeFetch, "Fetched %d roles, %d channels, %d emoji from %s",
		len(snap.Roles), len(snap.Channels), len(snap.Emoji), guild.Name)
	return snap, run.warnings, nil
}

func (f *fetch) roles(names map[string]string) []models.RoleSpec {
	roles, err := f.platform.Roles(f.guild.ID)
	if err != nil {
		f.warn("Unable to read roles: %s", err)
		return nil
	}
	sort.SliceStable(roles, func(i, j int) bool {
		if roles[i].Position != roles[j].Position {
			return roles[i].Position < roles[j].Position
		}
		return roles[i].ID < roles[j].ID
	})

	out := make([]models.RoleSpec, 0, len(roles))
	for _, r := range roles {
		if r.ID == f.guild.ID || r.Managed {
			continue
		}
		names[r.ID] = r.Name
		out = append(out, models.RoleSpec{
			Name:        r.Name,
			Color:       r.Color,
			Hoist:       r.Hoist,
			Permissions: models.Bitfield(uint64(r.Permissions)),
			Mentionable: r.Mentionable,
			Position:    r.Position,
		})
	}
	return out
}

func (f *fetch) channels(roleNames map[string]string) []models.ChannelSpec {
	channels, err := f.platform.Channels(f.guild.ID)
	if err != nil {
		f.warn("Unable to read channels: %s", err)
		return nil
	}

	var categories, others []*discordgo.Channel
	categoryNames := make(map[string]string)
	for _, ch := range channels {
		switch {
		case platform.IsThread(ch):
			continue
		case platform.IsCategory(ch):
			categories = append(categories, ch)
			categoryNames[ch.ID] = ch.Name
		default:
			others = append(others, ch)
		}
	}
	byPosition(categories)
	byPosition(others)

	out := make([]models.ChannelSpec, 0, len(categories)+len(others))
	for _, ch := range categories {
		out = append(out, f.channelSpec(ch, "", roleNames))
	}
	for _, ch := range others {
		parent := ""
		if ch.ParentID != "" {
			name, ok := categoryNames[ch.ParentID]
			if !ok {
				f.warn("Channel %q has parent %s which is not a category, stored as top-level", ch.Name, ch.ParentID)
			}
			parent = name
		}
		out = append(out, f.channelSpec(ch, parent, roleNames))
	}
	return out
}

func (f *fetch) channelSpec(ch *discordgo.Channel, parent string, roleNames map[string]string) models.ChannelSpec {
	kind := kindFromType(ch.Type)
	if isUnknownKind(kind) {
		f.warn("Channel %q has unrecognised type %d", ch.Name, ch.Type)
	}
	return models.ChannelSpec{
		Name:             ch.Name,
		Kind:             kind,
		ParentName:       parent,
		Topic:            ch.Topic,
		NSFW:             ch.NSFW,
		Bitrate:          ch.Bitrate,
		UserLimit:        ch.UserLimit,
		Position:         ch.Position,
		RateLimitSeconds: ch.RateLimitPerUser,
		Overwrites:       f.overwrites(ch, roleNames),
	}
}

// overwrites keeps role-subject overwrites whose role is part of the
// snapshot. Member overwrites are not portable between guilds.
func (f *fetch) overwrites(ch *discordgo.Channel, roleNames map[string]string) []models.PermissionOverwrite {
	out := make([]models.PermissionOverwrite, 0, len(ch.PermissionOverwrites))
	for _, ow := range ch.PermissionOverwrites {
		if ow == nil || ow.Type != discordgo.PermissionOverwriteTypeRole {
			continue
		}
		name, ok := roleNames[ow.ID]
		if !ok {
			f.logger.Debugf(providers.TypeFetch, "Channel %q: overwrite for unknown or managed role %s dropped", ch.Name, ow.ID)
			continue
		}
		out = append(out, models.PermissionOverwrite{
			SubjectKind: models.SubjectRole,
			SubjectName: name,
			Allow:       models.Bitfield(uint64(ow.Allow)),
			Deny:        models.Bitfield(uint64(ow.Deny)),
		})
	}
	return out
}

func (f *fetch) emoji() []models.EmojiSpec {
	emojis, err := f.platform.Emojis(f.guild.ID)
	if err != nil {
		f.warn("Unable to read emoji: %s", err)
		return nil
	}
	out := make([]models.EmojiSpec, 0, len(emojis))
	for _, e := range emojis {
		if e.Managed {
			continue
		}
		ref := discordgo.EndpointEmoji(e.ID)
		if e.Animated {
			ref = discordgo.EndpointEmojiAnimated(e.ID)
		}
		out = append(out, models.EmojiSpec{Name: e.Name, ImageReference: ref})
	}
	return out
}

func byPosition(channels []*discordgo.Channel) {
	sort.SliceStable(channels, func(i, j int) bool {
		if channels[i].Position != channels[j].Position {
			return channels[i].Position < channels[j].Position
		}
		return channels[i].ID < channels[j].ID
	})
}
