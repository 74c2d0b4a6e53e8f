package discord

import (
	"context"
	"fmt"
	"log"
	"time"

	"tunekeeper/internal/core"
	"tunekeeper/internal/player"
	"tunekeeper/internal/storage"
	"tunekeeper/pkg/util"

	"github.com/bwmarrin/discordgo"
)

const idleLeaveAfter = 5 * time.Minute

func idleJobName(guildID string) string {
	return "idle-leave:" + guildID
}

// nodeRelay receives playback events from the audio node and turns them into
// player transitions, history records, and chat announcements.
type nodeRelay struct {
	bot *Bot
}

func (r *nodeRelay) OnTrackStart(guildID, encoded string) {
	b := r.bot
	b.jobs.Stop(idleJobName(guildID))

	p := b.registry.Get(guildID)
	if p == nil {
		return
	}
	track := p.Current()
	if track == nil {
		return
	}

	if err := b.storage.AppendTrackToHistory(guildID, storage.TrackHistoryRecord{
		TrackID:   track.ID,
		Title:     track.Title,
		Author:    track.Author,
		URI:       track.URI,
		Requester: track.Requester,
		PlayedAt:  time.Now(),
	}); err != nil {
		log.Printf("[WARN] Failed to record track history for guild %s: %v", guildID, err)
	}

	r.announce(guildID, p, *track)
}

// announce posts a now-playing embed unless the guild muted announcements.
// A looping track is announced only once, not on every repeat.
func (r *nodeRelay) announce(guildID string, p *player.Player, track player.Track) {
	b := r.bot

	muted, err := b.storage.AnnounceMuted(guildID)
	if err != nil {
		log.Printf("[WARN] Failed to read announce setting for guild %s: %v", guildID, err)
	}
	if muted || p.Loop() == player.LoopTrack {
		return
	}
	channelID := p.TextChannelID()
	if channelID == "" {
		return
	}

	line := track.Title
	if track.URI != "" {
		line = fmt.Sprintf("[%s](%s)", track.Title, track.URI)
	}
	length := "`" + util.FormatTrackTime(track.Duration) + "`"
	if track.Stream {
		length = "🔴 live"
	}
	desc := fmt.Sprintf("%s %s", line, length)
	if track.Requester != "" {
		desc += fmt.Sprintf("\nRequested by <@%s>", track.Requester)
	}

	if err := core.MessageEmbed(b.dg, channelID, &discordgo.MessageEmbed{
		Title:       "▶️ Now playing",
		Description: desc,
	}); err != nil {
		log.Printf("[WARN] Failed to announce track on guild %s: %v", guildID, err)
	}
}

func (r *nodeRelay) OnTrackEnd(guildID, encoded string, reason player.EndReason) {
	b := r.bot
	p := b.registry.Get(guildID)
	if p == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), voiceEventTimeout)
	defer cancel()
	if err := p.HandleTrackEnd(ctx, reason); err != nil {
		log.Printf("[ERR] Track end handling failed on guild %s: %v", guildID, err)
	}

	if p.Current() == nil {
		r.scheduleIdleLeave(guildID)
	}
}

func (r *nodeRelay) OnTrackException(guildID, encoded, message string) {
	b := r.bot
	p := b.registry.Get(guildID)
	if p == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), voiceEventTimeout)
	defer cancel()
	if err := p.HandleTrackException(ctx, message); err != nil {
		log.Printf("[ERR] Track exception handling failed on guild %s: %v", guildID, err)
	}

	if p.Current() == nil {
		r.scheduleIdleLeave(guildID)
	}
}

// OnNodeDisconnect tears down every live player after the node connection
// dropped. A restarted node has no players, so it will never emit a track
// end for whatever was playing; keeping the registry entries would leave
// those guilds wedged until someone runs /leave by hand.
func (r *nodeRelay) OnNodeDisconnect() {
	b := r.bot
	guildIDs := b.registry.GuildIDs()
	if len(guildIDs) == 0 {
		return
	}
	log.Printf("[WARN] Audio node lost, tearing down %d player(s)", len(guildIDs))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, guildID := range guildIDs {
		b.jobs.Stop(idleJobName(guildID))
		if p := b.registry.Get(guildID); p != nil {
			// The stop op cannot reach the dead node; the local
			// state reset is what matters here.
			if err := p.Leave(ctx); err != nil {
				log.Printf("[WARN] Player teardown failed on guild %s: %v", guildID, err)
			}
			b.registry.Remove(guildID)
		}
		if err := b.dropVoice(guildID); err != nil {
			log.Printf("[WARN] Failed to drop voice on guild %s: %v", guildID, err)
		}
	}
}

// scheduleIdleLeave leaves the voice channel after a quiet period. Starting a
// new track cancels the job.
func (r *nodeRelay) scheduleIdleLeave(guildID string) {
	b := r.bot
	err := b.jobs.StartAsync(idleJobName(guildID), func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(idleLeaveAfter):
		}

		p := b.registry.Get(guildID)
		if p == nil || p.IsPlaying() {
			return nil
		}
		log.Printf("[INFO] Idle for %v on guild %s, leaving voice", idleLeaveAfter, guildID)
		leaveCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return b.Leave(leaveCtx, guildID)
	})
	if err != nil {
		log.Printf("[WARN] Idle leave already scheduled for guild %s: %v", guildID, err)
	}
}
