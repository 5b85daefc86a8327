package discord

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/juju/errors"

	"guildcloner/internal/platform"
	"guildcloner/internal/providers"
	"guildcloner/internal/structures"
)

const (
	requestTimeout = 30 * time.Second
	maxImageSize   = 10 << 20 // 10 MB
	auditReason    = "Server Cloner"
)

var withReason = discordgo.WithAuditLogReason(auditReason)

// Session implements platform.PlatformInterface over the discordgo REST
// client. It never opens the gateway.
type Session struct {
	session *discordgo.Session
	cache   providers.CacheProviderInterface
	logger  providers.Logger
}

func NewSession(conf *structures.Config, cache providers.CacheProviderInterface, logger providers.Logger) (platform.PlatformInterface, error) {
	token := strings.TrimSpace(conf.Discord.Token)
	if conf.Discord.Bot && !strings.HasPrefix(token, "Bot ") {
		token = "Bot " + token
	}
	s, err := discordgo.New(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create discord session: %w", err)
	}
	s.Client.Timeout = requestTimeout
	s.UserAgent = fmt.Sprintf("DiscordBot (https://github.com/bwmarrin/discordgo, %s) %s", discordgo.VERSION, conf.AppName)

	return newSession(s, cache, logger), nil
}

func newSession(s *discordgo.Session, cache providers.CacheProviderInterface, logger providers.Logger) *Session {
	return &Session{session: s, cache: cache, logger: logger}
}

// classify maps a discordgo failure onto the engine's error kinds.
func classify(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		switch rest.Response.StatusCode {
		case http.StatusNotFound:
			return errors.NewNotFound(err, msg)
		case http.StatusUnauthorized, http.StatusForbidden:
			return errors.NewForbidden(err, msg)
		}
	}
	return errors.NewBadRequest(err, msg)
}

func (s *Session) Guild(guildID string) (*discordgo.Guild, error) {
	g, err := s.session.Guild(guildID)
	return g, classify(err, "guild %q", guildID)
}

func (s *Session) Self(guildID string) (*discordgo.Member, error) {
	m, err := s.session.GuildMember(guildID, "@me")
	return m, classify(err, "own membership in guild %q", guildID)
}

func (s *Session) Roles(guildID string) ([]*discordgo.Role, error) {
	roles, err := s.session.GuildRoles(guildID)
	return roles, classify(err, "roles of guild %q", guildID)
}

func (s *Session) Channels(guildID string) ([]*discordgo.Channel, error) {
	channels, err := s.session.GuildChannels(guildID)
	return channels, classify(err, "channels of guild %q", guildID)
}

func (s *Session) Emojis(guildID string) ([]*discordgo.Emoji, error) {
	emojis, err := s.session.GuildEmojis(guildID)
	return emojis, classify(err, "emoji of guild %q", guildID)
}

func (s *Session) CreateGuild(name string) (*discordgo.Guild, error) {
	g, err := s.session.GuildCreate(name)
	return g, classify(err, "create guild %q", name)
}

// EditGuild PATCHes the guild with settings as the raw body. discordgo's
// GuildParams omits zero moderation values, which are meaningful here.
func (s *Session) EditGuild(guildID string, settings *platform.GuildSettings) error {
	endpoint := discordgo.EndpointGuild(guildID)
	_, err := s.session.RequestWithBucketID(http.MethodPatch, endpoint, settings, endpoint, withReason)
	return classify(err, "edit guild %q", guildID)
}

func (s *Session) CreateRole(guildID string, params *discordgo.RoleParams) (*discordgo.Role, error) {
	role, err := s.session.GuildRoleCreate(guildID, params, withReason)
	return role, classify(err, "create role %q", params.Name)
}

func (s *Session) DeleteRole(guildID, roleID string) error {
	return classify(s.session.GuildRoleDelete(guildID, roleID, withReason), "delete role %q", roleID)
}

func (s *Session) ReorderRoles(guildID string, roles []*discordgo.Role) error {
	_, err := s.session.GuildRoleReorder(guildID, roles, withReason)
	return classify(err, "reorder roles of guild %q", guildID)
}

func (s *Session) CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	ch, err := s.session.GuildChannelCreateComplex(guildID, data, withReason)
	return ch, classify(err, "create channel %q", data.Name)
}

func (s *Session) DeleteChannel(channelID string) error {
	_, err := s.session.ChannelDelete(channelID, withReason)
	return classify(err, "delete channel %q", channelID)
}

func (s *Session) CreateEmoji(guildID string, params *discordgo.EmojiParams) error {
	_, err := s.session.GuildEmojiCreate(guildID, params, withReason)
	return classify(err, "create emoji %q", params.Name)
}

func (s *Session) ImageData(reference string) (string, error) {
	if strings.HasPrefix(reference, "data:") {
		return reference, nil
	}
	if cached, ok := s.cache.Get(reference); ok {
		return string(cached), nil
	}

	resp, err := s.session.Client.Get(reference)
	if err != nil {
		return "", errors.NewBadRequest(err, fmt.Sprintf("download %s", reference))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", errors.NotFoundf("image %s", reference)
	case resp.StatusCode != http.StatusOK:
		return "", errors.BadRequestf("download %s: status %d", reference, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return "", errors.NewBadRequest(err, fmt.Sprintf("download %s", reference))
	}
	if len(body) > maxImageSize {
		return "", errors.BadRequestf("image %s exceeds %d bytes", reference, maxImageSize)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		contentType = http.DetectContentType(body)
	}
	uri := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(body)

	s.cache.Set(reference, []byte(uri))
	s.logger.Debugf(providers.TypeReplicate, "Downloaded %s (%d bytes)", reference, len(body))
	return uri, nil
}
