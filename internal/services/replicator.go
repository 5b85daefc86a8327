package services

import (
	"fmt"
	"math"

	"github.com/bwmarrin/discordgo"
	"github.com/juju/clock"
	"github.com/juju/errors"

	"guildcloner/internal/models"
	"guildcloner/internal/pacer"
	"guildcloner/internal/platform"
	"guildcloner/internal/providers"
)

type ReplicatorInterface interface {
	Replicate(targetID string, snap *models.Snapshot, opts models.Options) (*models.ReplicationReport, error)
}

type Replicator struct {
	platform platform.PlatformInterface
	pacer    pacer.PacerInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	reporter ProgressReporterInterface
	clock    clock.Clock
}

func NewReplicator(p platform.PlatformInterface, pc pacer.PacerInterface, logger providers.Logger, metrics providers.MetricsProviderInterface, reporter ProgressReporterInterface, clk clock.Clock) ReplicatorInterface {
	return &Replicator{
		platform: p,
		pacer:    pc,
		logger:   logger,
		metrics:  metrics,
		reporter: reporter,
		clock:    clk,
	}
}

// replication holds the state of a single Replicate call.
type replication struct {
	*Replicator
	target *discordgo.Guild
	snap   *models.Snapshot
	mapper *IdentityMapper
	report *models.ReplicationReport
}

// Replicate wipes the target's structure and rebuilds it from snap. Phases
// run strictly in order (settings, clearing, roles, channels, emoji) and any
// phase may be skipped by opts. Only an unreadable target guild is fatal.
func (r *Replicator) Replicate(targetID string, snap *models.Snapshot, opts models.Options) (*models.ReplicationReport, error) {
	if snap == nil {
		return nil, errors.NotValidf("nil snapshot")
	}
	target, err := r.platform.Guild(targetID)
	if err != nil {
		return nil, errors.Annotatef(err, "target guild")
	}
	r.logger.Infof(providers.TypeReplicate, "Target server: %s (existing data will be wiped)", target.Name)

	run := &replication{
		Replicator: r,
		target:     target,
		snap:       snap,
		mapper:     NewIdentityMapper(),
		report:     models.NewReplicationReport(r.clock.Now()),
	}
	run.mapper.RecordRole(models.EveryoneSubject, target.ID)

	run.phase(models.PhaseSettings, opts.Settings, 3, run.applySettings)
	run.phase(models.PhaseClearing, opts.ClearsTarget(), 0, run.clearTarget)
	run.phase(models.PhaseRoles, opts.Roles && len(snap.Roles) > 0, len(snap.Roles), run.createRoles)
	run.phase(models.PhaseChannels, opts.Channels && len(snap.Channels) > 0, len(snap.Channels), run.createChannels)
	run.phase(models.PhaseEmoji, opts.Emoji && len(snap.Emoji) > 0, len(snap.Emoji), run.createEmoji)

	run.report.FinishedAt = r.clock.Now()
	r.logger.Infof(providers.TypeReplicate, "Cloning process completed with %d failures", run.report.Failures())
	return run.report, nil
}

func (r *replication) phase(phase models.Phase, enabled bool, total int, step func()) {
	if !enabled {
		r.logger.Debugf(providers.TypeReplicate, "Phase %s skipped", phase)
		return
	}
	r.logger.Infof(providers.TypeReplicate, "➜ %s", phase)
	r.reporter.Phase(phase, total)
	start := r.clock.Now()
	step()
	r.metrics.ObservePhaseDuration(string(phase), r.clock.Now().Sub(start))
}

func (r *replication) warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.report.Warn(msg)
	r.reporter.Warn(msg)
	r.logger.Warnf(providers.TypeReplicate, "%s", msg)
}

func (r *replication) record(category string, tally *models.Tally, label string, outcome models.Outcome) {
	tally.Record(outcome)
	r.metrics.IncOperations(category, outcome.String())
	r.reporter.Step(label, outcome)
	if outcome == models.OutcomeCreated {
		r.logger.Debugf(providers.TypeReplicate, "  └ %s", label)
	}
}

func (r *replication) applySettings() {
	tally := &r.report.Settings

	if ref := r.snap.IconReference; ref != "" {
		r.applyImage("icon", ref, func(uri string) *platform.GuildSettings {
			return &platform.GuildSettings{Icon: uri}
		})
	}
	if ref := r.snap.BannerReference; ref != "" {
		r.applyImage("banner", ref, func(uri string) *platform.GuildSettings {
			return &platform.GuildSettings{Banner: uri}
		})
	}

	// Zero is a real setting for every moderation field and is always sent.
	mod := r.snap.Moderation
	settings := &platform.GuildSettings{
		Name:                        r.snap.Name,
		VerificationLevel:           &mod.VerificationLevel,
		DefaultMessageNotifications: &mod.DefaultNotifications,
		ExplicitContentFilter:       &mod.ExplicitContentFilter,
		AFKTimeout:                  &mod.AFKTimeout,
	}
	if err := r.platform.EditGuild(r.target.ID, settings); err != nil {
		r.warn("Unable to apply moderation settings: %s", err)
		r.record("settings", tally, "moderation settings", models.OutcomeFailed)
	} else {
		r.record("settings", tally, "moderation settings", models.OutcomeCreated)
	}
	r.pacer.Wait(pacer.KindCreate)
}

func (r *replication) applyImage(what, ref string, settings func(uri string) *platform.GuildSettings) {
	tally := &r.report.Settings
	uri, err := r.platform.ImageData(ref)
	if err != nil {
		r.warn("Unable to download %s: %s", what, err)
		r.record("settings", tally, what, models.OutcomeFailed)
		return
	}
	if err := r.platform.EditGuild(r.target.ID, settings(uri)); err != nil {
		r.warn("Unable to apply %s: %s", what, err)
		r.record("settings", tally, what, models.OutcomeFailed)
	} else {
		r.record("settings", tally, what, models.OutcomeCreated)
	}
	r.pacer.Wait(pacer.KindCreate)
}

// deleteOutcome maps a deletion error: an entity that is already gone is a
// skip, anything else is a failure.
func deleteOutcome(err error) models.Outcome {
	switch {
	case err == nil:
		return models.OutcomeCreated
	case errors.Is(err, errors.NotFound):
		return models.OutcomeSkipped
	default:
		return models.OutcomeFailed
	}
}

func (r *replication) clearTarget() {
	tally := &r.report.Cleared

	channels, err := r.platform.Channels(r.target.ID)
	if err != nil {
		r.warn("Unable to list target channels: %s", err)
	}
	for _, ch := range channels {
		if platform.IsThread(ch) {
			continue
		}
		err := r.platform.DeleteChannel(ch.ID)
		outcome := deleteOutcome(err)
		if outcome == models.OutcomeFailed {
			r.logger.Debugf(providers.TypeReplicate, "Unable to delete channel %q: %s", ch.Name, err)
		}
		r.record("clear", tally, "Deleted channel: "+ch.Name, outcome)
		r.pacer.Wait(pacer.KindDelete)
	}

	roles, err := r.platform.Roles(r.target.ID)
	if err != nil {
		r.warn("Unable to list target roles: %s", err)
		return
	}
	// Only roles strictly below our own highest role are editable, unless we
	// own the guild. If our membership cannot be read every candidate is
	// attempted.
	top := math.MaxInt
	if self, err := r.platform.Self(r.target.ID); err != nil {
		r.logger.Debugf(providers.TypeReplicate, "Unable to read own membership: %s", err)
	} else {
		top = platform.RoleCeiling(r.target, self, roles)
	}
	for _, role := range roles {
		if role.ID == r.target.ID || role.Managed || role.Position >= top {
			continue
		}
		err := r.platform.DeleteRole(r.target.ID, role.ID)
		outcome := deleteOutcome(err)
		if outcome == models.OutcomeFailed {
			r.logger.Debugf(providers.TypeReplicate, "Unable to delete role %q: %s", role.Name, err)
		}
		r.record("clear", tally, "Deleted role: "+role.Name, outcome)
		r.pacer.Wait(pacer.KindDelete)
	}
	r.logger.Infof(providers.TypeReplicate, "Server cleared: %d deleted, %d failed", tally.Succeeded, tally.Failed)
}

func (r *replication) createRoles() {
	tally := &r.report.Roles
	positions := make([]*discordgo.Role, 0, len(r.snap.Roles))

	for _, spec := range r.snap.Roles {
		color := spec.Color
		hoist := spec.Hoist
		perms := r.permissionBits("Role "+spec.Name, spec.Permissions)
		mentionable := spec.Mentionable
		role, err := r.platform.CreateRole(r.target.ID, &discordgo.RoleParams{
			Name:        spec.Name,
			Color:       &color,
			Hoist:       &hoist,
			Permissions: &perms,
			Mentionable: &mentionable,
		})
		if err != nil {
			r.warn("Failed to create role %s: %s", spec.Name, err)
			r.record("roles", tally, spec.Name, models.OutcomeFailed)
		} else {
			if !r.mapper.RecordRole(spec.Name, role.ID) {
				r.warn("Duplicate role name %q: references resolve to the first one", spec.Name)
			}
			positions = append(positions, &discordgo.Role{ID: role.ID, Position: spec.Position})
			r.record("roles", tally, "Created role: "+spec.Name, models.OutcomeCreated)
		}
		r.pacer.Wait(pacer.KindCreate)
	}

	if len(positions) == 0 {
		return
	}
	if err := r.platform.ReorderRoles(r.target.ID, positions); err != nil {
		r.warn("Role hierarchy not fully restored: %s", err)
		return
	}
	r.report.HierarchyApplied = true
	r.logger.Infof(providers.TypeReplicate, "Cloned %d roles.", tally.Succeeded)
}

func (r *replication) createChannels() {
	community := platform.HasFeature(r.target, platform.FeatureCommunity)
	maxBitrate := platform.MaxBitrate(r.target.PremiumTier)

	for _, spec := range r.snap.Categories() {
		r.createChannel(spec, "", community, maxBitrate)
	}
	for _, spec := range r.snap.Children() {
		parentID := ""
		if spec.ParentName != "" {
			id, ok := r.mapper.ResolveChannel(spec.ParentName)
			if !ok {
				r.logger.Debugf(providers.TypeReplicate, "Parent %q of %q was not created, placing at top level", spec.ParentName, spec.Name)
			}
			parentID = id
		}
		r.createChannel(spec, parentID, community, maxBitrate)
	}
	r.logger.Infof(providers.TypeReplicate, "Channels cloned.")
}

func (r *replication) createChannel(spec models.ChannelSpec, parentID string, community bool, maxBitrate int) {
	tally := &r.report.Channels

	chType, downgraded, ok := targetType(spec.Kind, community)
	if !ok {
		r.warn("Channel %q of kind %s has no equivalent on the target, skipped", spec.Name, spec.Kind)
		r.record("channels", tally, spec.Name, models.OutcomeSkipped)
		return
	}
	if downgraded {
		r.warn("Channel %q of kind %s created as %s", spec.Name, spec.Kind, kindFromType(chType))
	}

	data := discordgo.GuildChannelCreateData{
		Name:                 spec.Name,
		Type:                 chType,
		Position:             spec.Position,
		ParentID:             parentID,
		PermissionOverwrites: r.translateOverwrites(spec),
	}
	switch {
	case chType == discordgo.ChannelTypeGuildCategory:
	case isVoiceType(chType):
		data.Bitrate = min(spec.Bitrate, maxBitrate)
		data.UserLimit = spec.UserLimit
		data.NSFW = spec.NSFW
	default:
		data.Topic = spec.Topic
		data.NSFW = spec.NSFW
		data.RateLimitPerUser = spec.RateLimitSeconds
	}

	ch, err := r.platform.CreateChannel(r.target.ID, data)
	if err != nil {
		r.warn("Error creating channel %s: %s", spec.Name, err)
		r.record("channels", tally, spec.Name, models.OutcomeFailed)
	} else {
		r.mapper.RecordChannel(spec.Name, ch.ID)
		label := "Created Channel: " + spec.Name
		if spec.IsCategory() {
			label = "Created Category: " + spec.Name
		}
		r.record("channels", tally, label, models.OutcomeCreated)
	}
	r.pacer.Wait(pacer.KindCreate)
}

// translateOverwrites rewrites role subjects into target role ids. Member
// overwrites and roles that were never created on the target are dropped.
func (r *replication) translateOverwrites(spec models.ChannelSpec) []*discordgo.PermissionOverwrite {
	out := make([]*discordgo.PermissionOverwrite, 0, len(spec.Overwrites))
	dropped := 0
	for _, ow := range spec.Overwrites {
		if ow.SubjectKind != models.SubjectRole {
			dropped++
			continue
		}
		id, ok := r.mapper.ResolveRole(ow.SubjectName)
		if !ok {
			dropped++
			continue
		}
		label := fmt.Sprintf("Channel %q overwrite for %s", spec.Name, ow.SubjectName)
		out = append(out, &discordgo.PermissionOverwrite{
			ID:    id,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: r.permissionBits(label, ow.Allow),
			Deny:  r.permissionBits(label, ow.Deny),
		})
	}
	if dropped > 0 {
		r.logger.Debugf(providers.TypeReplicate, "Channel %q: %d overwrites dropped", spec.Name, dropped)
	}
	return out
}

// signBit is the one permission bit the platform's signed 64-bit encoding
// cannot carry.
const signBit = models.Bitfield(1) << 63

// permissionBits converts a mask for the wire, clearing the sign bit.
func (r *replication) permissionBits(what string, b models.Bitfield) int64 {
	if b&signBit != 0 {
		r.warn("%s: permission bit 63 cannot be sent and was cleared", what)
		b &^= signBit
	}
	return int64(b)
}

func (r *replication) createEmoji() {
	tally := &r.report.Emoji

	for _, spec := range r.snap.Emoji {
		image, err := r.platform.ImageData(spec.ImageReference)
		if err != nil {
			r.logger.Debugf(providers.TypeReplicate, "Unable to download emoji %s: %s", spec.Name, err)
			r.record("emoji", tally, spec.Name, models.OutcomeFailed)
			continue
		}
		err = r.platform.CreateEmoji(r.target.ID, &discordgo.EmojiParams{Name: spec.Name, Image: image})
		if err != nil {
			// Commonly the emoji slot limit; not worth a warning per emoji.
			r.logger.Debugf(providers.TypeReplicate, "Unable to create emoji %s: %s", spec.Name, err)
			r.record("emoji", tally, spec.Name, models.OutcomeFailed)
		} else {
			r.record("emoji", tally, "Created Emoji: "+spec.Name, models.OutcomeCreated)
		}
		r.pacer.Wait(pacer.KindEmoji)
	}
	if tally.Failed > 0 {
		r.warn("%d of %d emoji could not be created", tally.Failed, tally.Attempts())
	}
}
