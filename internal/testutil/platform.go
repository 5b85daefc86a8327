package testutil

import (
	"encoding/base64"
	"strconv"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/juju/errors"

	"guildcloner/internal/platform"
)

// SelfID is the user id of the engine's account on a FakePlatform.
const SelfID = "self"

// FakePlatform is an in-memory platform.PlatformInterface. Every call is
// appended to Calls as "Method:subject" and failures can be injected per
// entity name.
type FakePlatform struct {
	mu sync.Mutex

	guilds   map[string]*discordgo.Guild
	roles    map[string][]*discordgo.Role
	channels map[string][]*discordgo.Channel
	emojis   map[string][]*discordgo.Emoji
	nextID   int

	// SelfMembers is the engine's membership per guild. Without an entry
	// Self fails with NotFound.
	SelfMembers map[string]*discordgo.Member

	// ReadErrors fails Roles, Channels or Emojis by method name.
	ReadErrors map[string]error
	// CreateErrors fails role, channel and emoji creation by name.
	CreateErrors map[string]error
	// DeleteErrors fails role and channel deletion by name.
	DeleteErrors map[string]error
	// ImageErrors fails ImageData by reference.
	ImageErrors map[string]error
	EditError   error
	ReorderErr  error
	// CreateGuildErr fails CreateGuild.
	CreateGuildErr error

	Calls          []string
	Edits          []*platform.GuildSettings
	Reordered      []*discordgo.Role
	CreatedChannel []discordgo.GuildChannelCreateData
	CreatedEmoji   []*discordgo.EmojiParams
}

func NewFakePlatform() *FakePlatform {
	return &FakePlatform{
		guilds:       make(map[string]*discordgo.Guild),
		roles:        make(map[string][]*discordgo.Role),
		channels:     make(map[string][]*discordgo.Channel),
		emojis:       make(map[string][]*discordgo.Emoji),
		SelfMembers:  make(map[string]*discordgo.Member),
		ReadErrors:   make(map[string]error),
		CreateErrors: make(map[string]error),
		DeleteErrors: make(map[string]error),
		ImageErrors:  make(map[string]error),
	}
}

func (f *FakePlatform) id() string {
	f.nextID++
	return strconv.Itoa(1000 + f.nextID)
}

func (f *FakePlatform) call(method, subject string) {
	f.Calls = append(f.Calls, method+":"+subject)
}

// AddGuild registers a guild together with its @everyone role.
func (f *FakePlatform) AddGuild(id, name string, features ...discordgo.GuildFeature) *discordgo.Guild {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := &discordgo.Guild{ID: id, Name: name, Features: features}
	f.guilds[id] = g
	f.roles[id] = append(f.roles[id], &discordgo.Role{ID: id, Name: "@everyone"})
	return g
}

func (f *FakePlatform) AddRole(guildID string, role *discordgo.Role) *discordgo.Role {
	f.mu.Lock()
	defer f.mu.Unlock()
	if role.ID == "" {
		role.ID = f.id()
	}
	f.roles[guildID] = append(f.roles[guildID], role)
	return role
}

func (f *FakePlatform) AddChannel(guildID string, ch *discordgo.Channel) *discordgo.Channel {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch.ID == "" {
		ch.ID = f.id()
	}
	ch.GuildID = guildID
	f.channels[guildID] = append(f.channels[guildID], ch)
	return ch
}

func (f *FakePlatform) AddEmoji(guildID string, e *discordgo.Emoji) *discordgo.Emoji {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID == "" {
		e.ID = f.id()
	}
	f.emojis[guildID] = append(f.emojis[guildID], e)
	return e
}

// RoleByName returns the first role called name, or nil.
func (f *FakePlatform) RoleByName(guildID, name string) *discordgo.Role {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.roles[guildID] {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// ChannelByName returns the first channel called name, or nil.
func (f *FakePlatform) ChannelByName(guildID, name string) *discordgo.Channel {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.channels[guildID] {
		if ch.Name == name {
			return ch
		}
	}
	return nil
}

// CallsOf returns the subjects of every recorded call to method, in order.
func (f *FakePlatform) CallsOf(method string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	prefix := method + ":"
	for _, c := range f.Calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			out = append(out, c[len(prefix):])
		}
	}
	return out
}

func (f *FakePlatform) Guild(guildID string) (*discordgo.Guild, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("Guild", guildID)
	g, ok := f.guilds[guildID]
	if !ok {
		return nil, errors.NotFoundf("guild %q", guildID)
	}
	cp := *g
	return &cp, nil
}

func (f *FakePlatform) Self(guildID string) (*discordgo.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.SelfMembers[guildID]
	if !ok {
		return nil, errors.NotFoundf("member @me")
	}
	return m, nil
}

func (f *FakePlatform) Roles(guildID string) ([]*discordgo.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("Roles", guildID)
	if err := f.ReadErrors["Roles"]; err != nil {
		return nil, err
	}
	return append([]*discordgo.Role(nil), f.roles[guildID]...), nil
}

func (f *FakePlatform) Channels(guildID string) ([]*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("Channels", guildID)
	if err := f.ReadErrors["Channels"]; err != nil {
		return nil, err
	}
	return append([]*discordgo.Channel(nil), f.channels[guildID]...), nil
}

func (f *FakePlatform) Emojis(guildID string) ([]*discordgo.Emoji, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("Emojis", guildID)
	if err := f.ReadErrors["Emojis"]; err != nil {
		return nil, err
	}
	return append([]*discordgo.Emoji(nil), f.emojis[guildID]...), nil
}

// CreateGuild registers a guild owned by SelfID with the default channels a
// fresh guild comes with.
func (f *FakePlatform) CreateGuild(name string) (*discordgo.Guild, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("CreateGuild", name)
	if f.CreateGuildErr != nil {
		return nil, f.CreateGuildErr
	}
	id := f.id()
	g := &discordgo.Guild{ID: id, Name: name, OwnerID: SelfID}
	f.guilds[id] = g
	f.roles[id] = []*discordgo.Role{{ID: id, Name: "@everyone"}}
	text := &discordgo.Channel{ID: f.id(), GuildID: id, Name: "Text Channels", Type: discordgo.ChannelTypeGuildCategory}
	voice := &discordgo.Channel{ID: f.id(), GuildID: id, Name: "Voice Channels", Type: discordgo.ChannelTypeGuildCategory, Position: 1}
	f.channels[id] = []*discordgo.Channel{
		text,
		{ID: f.id(), GuildID: id, Name: "general", Type: discordgo.ChannelTypeGuildText, ParentID: text.ID},
		voice,
		{ID: f.id(), GuildID: id, Name: "General", Type: discordgo.ChannelTypeGuildVoice, ParentID: voice.ID},
	}
	f.SelfMembers[id] = &discordgo.Member{User: &discordgo.User{ID: SelfID}}
	cp := *g
	return &cp, nil
}

func (f *FakePlatform) EditGuild(guildID string, settings *platform.GuildSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("EditGuild", guildID)
	if f.EditError != nil {
		return f.EditError
	}
	g, ok := f.guilds[guildID]
	if !ok {
		return errors.NotFoundf("guild %q", guildID)
	}
	f.Edits = append(f.Edits, settings)
	if settings.Name != "" {
		g.Name = settings.Name
	}
	if settings.VerificationLevel != nil {
		g.VerificationLevel = discordgo.VerificationLevel(*settings.VerificationLevel)
	}
	if settings.DefaultMessageNotifications != nil {
		g.DefaultMessageNotifications = discordgo.MessageNotifications(*settings.DefaultMessageNotifications)
	}
	if settings.ExplicitContentFilter != nil {
		g.ExplicitContentFilter = discordgo.ExplicitContentFilterLevel(*settings.ExplicitContentFilter)
	}
	if settings.AFKTimeout != nil {
		g.AfkTimeout = *settings.AFKTimeout
	}
	return nil
}

func (f *FakePlatform) CreateRole(guildID string, params *discordgo.RoleParams) (*discordgo.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("CreateRole", params.Name)
	if err := f.CreateErrors[params.Name]; err != nil {
		return nil, err
	}
	role := &discordgo.Role{ID: f.id(), Name: params.Name, Position: 1}
	if params.Color != nil {
		role.Color = *params.Color
	}
	if params.Hoist != nil {
		role.Hoist = *params.Hoist
	}
	if params.Permissions != nil {
		role.Permissions = *params.Permissions
	}
	if params.Mentionable != nil {
		role.Mentionable = *params.Mentionable
	}
	f.roles[guildID] = append(f.roles[guildID], role)
	return role, nil
}

func (f *FakePlatform) DeleteRole(guildID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	roles := f.roles[guildID]
	for i, r := range roles {
		if r.ID != roleID {
			continue
		}
		f.call("DeleteRole", r.Name)
		if err := f.DeleteErrors[r.Name]; err != nil {
			return err
		}
		f.roles[guildID] = append(roles[:i:i], roles[i+1:]...)
		return nil
	}
	f.call("DeleteRole", roleID)
	return errors.NotFoundf("role %q", roleID)
}

func (f *FakePlatform) ReorderRoles(guildID string, roles []*discordgo.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("ReorderRoles", guildID)
	if f.ReorderErr != nil {
		return f.ReorderErr
	}
	f.Reordered = roles
	for _, want := range roles {
		for _, r := range f.roles[guildID] {
			if r.ID == want.ID {
				r.Position = want.Position
			}
		}
	}
	return nil
}

func (f *FakePlatform) CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("CreateChannel", data.Name)
	if err := f.CreateErrors[data.Name]; err != nil {
		return nil, err
	}
	if data.ParentID != "" && !f.hasCategory(guildID, data.ParentID) {
		return nil, errors.BadRequestf("parent %q is not a category", data.ParentID)
	}
	ch := &discordgo.Channel{
		ID:                   f.id(),
		GuildID:              guildID,
		Name:                 data.Name,
		Type:                 data.Type,
		Topic:                data.Topic,
		Bitrate:              data.Bitrate,
		UserLimit:            data.UserLimit,
		RateLimitPerUser:     data.RateLimitPerUser,
		Position:             data.Position,
		ParentID:             data.ParentID,
		NSFW:                 data.NSFW,
		PermissionOverwrites: data.PermissionOverwrites,
	}
	f.channels[guildID] = append(f.channels[guildID], ch)
	f.CreatedChannel = append(f.CreatedChannel, data)
	return ch, nil
}

func (f *FakePlatform) hasCategory(guildID, id string) bool {
	for _, ch := range f.channels[guildID] {
		if ch.ID == id && ch.Type == discordgo.ChannelTypeGuildCategory {
			return true
		}
	}
	return false
}

func (f *FakePlatform) DeleteChannel(channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for guildID, channels := range f.channels {
		for i, ch := range channels {
			if ch.ID != channelID {
				continue
			}
			f.call("DeleteChannel", ch.Name)
			if err := f.DeleteErrors[ch.Name]; err != nil {
				return err
			}
			f.channels[guildID] = append(channels[:i:i], channels[i+1:]...)
			return nil
		}
	}
	f.call("DeleteChannel", channelID)
	return errors.NotFoundf("channel %q", channelID)
}

func (f *FakePlatform) CreateEmoji(guildID string, params *discordgo.EmojiParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("CreateEmoji", params.Name)
	if err := f.CreateErrors[params.Name]; err != nil {
		return err
	}
	f.emojis[guildID] = append(f.emojis[guildID], &discordgo.Emoji{ID: f.id(), Name: params.Name})
	f.CreatedEmoji = append(f.CreatedEmoji, params)
	return nil
}

func (f *FakePlatform) ImageData(reference string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ImageErrors[reference]; err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(reference)), nil
}
