package services

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/juju/clock/testclock"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildcloner/internal/models"
	"guildcloner/internal/testutil"
)

var fetchTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// seedSource builds a source guild "1" with two roles, a managed bot role,
// two categories, a thread and three emoji.
func seedSource(fp *testutil.FakePlatform) {
	g := fp.AddGuild("1", "Source")
	g.Icon = "iconhash"
	g.VerificationLevel = discordgo.VerificationLevelMedium
	g.AfkTimeout = 300

	fp.AddRole("1", &discordgo.Role{ID: "r-mod", Name: "Mod", Position: 2, Permissions: 8, Color: 0xff0000, Hoist: true})
	fp.AddRole("1", &discordgo.Role{ID: "r-member", Name: "Member", Position: 1, Permissions: 1024})
	fp.AddRole("1", &discordgo.Role{ID: "r-bot", Name: "Bot", Position: 3, Managed: true})

	fp.AddChannel("1", &discordgo.Channel{ID: "c-voice", Name: "lounge", Type: discordgo.ChannelTypeGuildVoice, Position: 3, Bitrate: 64000, UserLimit: 5})
	fp.AddChannel("1", &discordgo.Channel{ID: "c-chat", Name: "chat", Type: discordgo.ChannelTypeGuildText, ParentID: "c-general", Position: 0, Topic: "hi",
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{ID: "r-mod", Type: discordgo.PermissionOverwriteTypeRole, Allow: 1024},
			{ID: "u-1", Type: discordgo.PermissionOverwriteTypeMember, Allow: 2048},
			{ID: "1", Type: discordgo.PermissionOverwriteTypeRole, Deny: 1024},
			{ID: "r-bot", Type: discordgo.PermissionOverwriteTypeRole, Allow: 8},
		}})
	fp.AddChannel("1", &discordgo.Channel{ID: "c-info", Name: "Info", Type: discordgo.ChannelTypeGuildCategory, Position: 1})
	fp.AddChannel("1", &discordgo.Channel{ID: "c-general", Name: "General", Type: discordgo.ChannelTypeGuildCategory, Position: 0})
	fp.AddChannel("1", &discordgo.Channel{ID: "c-thread", Name: "a thread", Type: discordgo.ChannelTypeGuildPublicThread, ParentID: "c-chat"})

	fp.AddEmoji("1", &discordgo.Emoji{ID: "e1", Name: "wave"})
	fp.AddEmoji("1", &discordgo.Emoji{ID: "e2", Name: "party", Animated: true})
	fp.AddEmoji("1", &discordgo.Emoji{ID: "e3", Name: "twitch", Managed: true})
}

func newTestFetcher(fp *testutil.FakePlatform) (FetcherInterface, *testutil.MockLogger) {
	logger := &testutil.MockLogger{}
	return NewFetcher(fp, logger, testclock.NewClock(fetchTime)), logger
}

func allOptions() models.Options {
	o := models.DefaultOptions()
	o.Emoji = true
	return o
}

func channelNames(channels []models.ChannelSpec) []string {
	out := make([]string, 0, len(channels))
	for _, ch := range channels {
		out = append(out, ch.Name)
	}
	return out
}

func TestFetcher_Fetch_FullSnapshot(t *testing.T) {
	fp := testutil.NewFakePlatform()
	seedSource(fp)
	f, _ := newTestFetcher(fp)

	snap, warnings, err := f.Fetch("1", allOptions())
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, models.SnapshotVersion, snap.Version)
	assert.Equal(t, "1", snap.SourceID)
	assert.Equal(t, "Source", snap.Name)
	assert.Equal(t, fetchTime, snap.CreatedAt)
	assert.Contains(t, snap.IconReference, "iconhash")
	assert.Empty(t, snap.BannerReference)
	assert.Equal(t, int(discordgo.VerificationLevelMedium), snap.Moderation.VerificationLevel)
	assert.Equal(t, 300, snap.Moderation.AFKTimeout)

	require.Len(t, snap.Roles, 2)
	assert.Equal(t, "Member", snap.Roles[0].Name)
	assert.Equal(t, "Mod", snap.Roles[1].Name)
	assert.Equal(t, models.Bitfield(8), snap.Roles[1].Permissions)
	assert.True(t, snap.Roles[1].Hoist)

	assert.Equal(t, []string{"General", "Info", "chat", "lounge"}, channelNames(snap.Channels))

	chat := snap.Channels[2]
	assert.Equal(t, models.KindText, chat.Kind)
	assert.Equal(t, "General", chat.ParentName)
	assert.Equal(t, "hi", chat.Topic)
	assert.Equal(t, []models.PermissionOverwrite{
		{SubjectKind: models.SubjectRole, SubjectName: "Mod", Allow: 1024},
		{SubjectKind: models.SubjectRole, SubjectName: models.EveryoneSubject, Deny: 1024},
	}, chat.Overwrites)

	lounge := snap.Channels[3]
	assert.Equal(t, models.KindVoice, lounge.Kind)
	assert.Empty(t, lounge.ParentName)
	assert.Equal(t, 64000, lounge.Bitrate)
	assert.Equal(t, 5, lounge.UserLimit)

	require.Len(t, snap.Emoji, 2)
	assert.Equal(t, "wave", snap.Emoji[0].Name)
	assert.Equal(t, discordgo.EndpointEmoji("e1"), snap.Emoji[0].ImageReference)
	assert.Equal(t, discordgo.EndpointEmojiAnimated("e2"), snap.Emoji[1].ImageReference)
}

func TestFetcher_Fetch_CategoriesPrecedeChildren(t *testing.T) {
	fp := testutil.NewFakePlatform()
	seedSource(fp)
	f, _ := newTestFetcher(fp)

	snap, _, err := f.Fetch("1", allOptions())
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, ch := range snap.Channels {
		if ch.ParentName != "" {
			assert.True(t, seen[ch.ParentName], "%s listed before its parent %s", ch.Name, ch.ParentName)
		}
		if ch.IsCategory() {
			assert.Empty(t, ch.ParentName)
			seen[ch.Name] = true
		}
	}
}

func TestFetcher_Fetch_OptionsLimitReads(t *testing.T) {
	fp := testutil.NewFakePlatform()
	seedSource(fp)
	f, _ := newTestFetcher(fp)

	snap, _, err := f.Fetch("1", models.Options{Channels: true})
	require.NoError(t, err)

	assert.Empty(t, snap.Roles)
	assert.Empty(t, snap.Emoji)
	assert.Empty(t, snap.IconReference)
	assert.Zero(t, snap.Moderation)
	assert.Len(t, snap.Channels, 4)
	// Roles are still read so overwrites can be named.
	assert.Equal(t, []string{"1"}, fp.CallsOf("Roles"))
	assert.Empty(t, fp.CallsOf("Emojis"))
	assert.Equal(t, "Mod", snap.Channels[2].Overwrites[0].SubjectName)
}

func TestFetcher_Fetch_UnknownSource(t *testing.T) {
	fp := testutil.NewFakePlatform()
	f, _ := newTestFetcher(fp)

	_, _, err := f.Fetch("404", allOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestFetcher_Fetch_ReadFailuresBecomeWarnings(t *testing.T) {
	fp := testutil.NewFakePlatform()
	seedSource(fp)
	fp.ReadErrors["Emojis"] = errors.Forbiddenf("emoji")
	f, logger := newTestFetcher(fp)

	snap, warnings, err := f.Fetch("1", allOptions())
	require.NoError(t, err)
	assert.Empty(t, snap.Emoji)
	assert.Len(t, snap.Channels, 4)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "emoji")
	assert.Len(t, logger.Messages("warn"), 1)
}

func TestFetcher_Fetch_NonCategoryParent(t *testing.T) {
	fp := testutil.NewFakePlatform()
	fp.AddGuild("1", "Source")
	fp.AddChannel("1", &discordgo.Channel{ID: "c-a", Name: "a", Type: discordgo.ChannelTypeGuildText})
	fp.AddChannel("1", &discordgo.Channel{ID: "c-b", Name: "b", Type: discordgo.ChannelTypeGuildText, ParentID: "c-a", Position: 1})
	f, _ := newTestFetcher(fp)

	snap, warnings, err := f.Fetch("1", models.Options{Channels: true})
	require.NoError(t, err)
	require.Len(t, snap.Channels, 2)
	assert.Empty(t, snap.Channels[1].ParentName)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "not a category")
}

func TestFetcher_Fetch_UnknownChannelTypeKept(t *testing.T) {
	fp := testutil.NewFakePlatform()
	fp.AddGuild("1", "Source")
	fp.AddChannel("1", &discordgo.Channel{ID: "c-x", Name: "mystery", Type: 42})
	f, _ := newTestFetcher(fp)

	snap, warnings, err := f.Fetch("1", models.Options{Channels: true})
	require.NoError(t, err)
	require.Len(t, snap.Channels, 1)
	assert.Equal(t, models.ChannelKind("unknown:42"), snap.Channels[0].Kind)
	assert.Len(t, warnings, 1)
}
