package models

import "time"

// SnapshotVersion is written into every encoded snapshot. Decoding accepts
// any version; fields unknown to this build are ignored.
const SnapshotVersion = 1

// EveryoneSubject is the reserved overwrite subject for the guild-wide
// default role. It never appears in Snapshot.Roles.
const EveryoneSubject = "@everyone"

type ChannelKind string

const (
	KindText         ChannelKind = "text"
	KindVoice        ChannelKind = "voice"
	KindCategory     ChannelKind = "category"
	KindAnnouncement ChannelKind = "announcement"
	KindStage        ChannelKind = "stage"
	KindForum        ChannelKind = "forum"
	KindMedia        ChannelKind = "media"
	KindStore        ChannelKind = "store"
	KindDirectory    ChannelKind = "directory"
)

type SubjectKind string

const (
	SubjectRole   SubjectKind = "role"
	SubjectMember SubjectKind = "member"
)

type ModerationSettings struct {
	VerificationLevel     int `json:"verification_level"`
	ExplicitContentFilter int `json:"explicit_content_filter"`
	DefaultNotifications  int `json:"default_notifications"`
	AFKTimeout            int `json:"afk_timeout"`
}

type RoleSpec struct {
	Name        string   `json:"name"`
	Color       int      `json:"color"`
	Hoist       bool     `json:"hoist"`
	Permissions Bitfield `json:"permissions"`
	Mentionable bool     `json:"mentionable"`
	Position    int      `json:"position"`
}

type PermissionOverwrite struct {
	SubjectKind SubjectKind `json:"subject_kind"`
	SubjectName string      `json:"subject_name,omitempty"`
	Allow       Bitfield    `json:"allow"`
	Deny        Bitfield    `json:"deny"`
}

type ChannelSpec struct {
	Name             string                `json:"name"`
	Kind             ChannelKind           `json:"kind"`
	ParentName       string                `json:"parent_name,omitempty"`
	Topic            string                `json:"topic,omitempty"`
	NSFW             bool                  `json:"nsfw"`
	Bitrate          int                   `json:"bitrate,omitempty"`
	UserLimit        int                   `json:"user_limit,omitempty"`
	Position         int                   `json:"position"`
	RateLimitSeconds int                   `json:"rate_limit_seconds,omitempty"`
	Overwrites       []PermissionOverwrite `json:"overwrites"`
}

// IsCategory reports whether the channel is a parentless container.
func (c *ChannelSpec) IsCategory() bool {
	return c.Kind == KindCategory
}

type EmojiSpec struct {
	Name           string `json:"name"`
	ImageReference string `json:"image_reference"`
}

// Snapshot is the structural capture of one guild. It is produced once by
// the fetcher or loaded from disk, and treated as read-only afterwards.
type Snapshot struct {
	Version         int                `json:"version"`
	SourceID        string             `json:"source_id,omitempty"`
	Name            string             `json:"name"`
	IconReference   string             `json:"icon_reference,omitempty"`
	BannerReference string             `json:"banner_reference,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	Moderation      ModerationSettings `json:"moderation"`
	Roles           []RoleSpec         `json:"roles"`
	Channels        []ChannelSpec      `json:"channels"`
	Emoji           []EmojiSpec        `json:"emoji"`
}

// Categories returns the category channels in stored order.
func (s *Snapshot) Categories() []ChannelSpec {
	var out []ChannelSpec
	for _, ch := range s.Channels {
		if ch.IsCategory() {
			out = append(out, ch)
		}
	}
	return out
}

// Children returns every non-category channel in stored order.
func (s *Snapshot) Children() []ChannelSpec {
	var out []ChannelSpec
	for _, ch := range s.Channels {
		if !ch.IsCategory() {
			out = append(out, ch)
		}
	}
	return out
}
