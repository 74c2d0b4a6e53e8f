package discord

import (
	"context"
	"log"
	"time"

	"tunekeeper/internal/player"

	"github.com/bwmarrin/discordgo"
)

const voiceEventTimeout = 10 * time.Second

// onVoiceStateUpdate feeds gateway voice state changes to the player router.
func (b *Bot) onVoiceStateUpdate(s *discordgo.Session, vs *discordgo.VoiceStateUpdate) {
	ev := player.VoiceStateEvent{
		State: player.VoiceState{
			GuildID:   vs.GuildID,
			UserID:    vs.UserID,
			ChannelID: vs.ChannelID,
			SessionID: vs.SessionID,
			SelfDeaf:  vs.SelfDeaf,
		},
	}
	if vs.BeforeUpdate != nil {
		ev.Prev = &player.VoiceState{
			GuildID:   vs.BeforeUpdate.GuildID,
			UserID:    vs.BeforeUpdate.UserID,
			ChannelID: vs.BeforeUpdate.ChannelID,
			SessionID: vs.BeforeUpdate.SessionID,
			SelfDeaf:  vs.BeforeUpdate.SelfDeaf,
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), voiceEventTimeout)
	defer cancel()
	if err := b.router.OnVoiceStateUpdate(ctx, ev); err != nil {
		log.Printf("[ERR] Voice state routing failed on guild %s: %v", vs.GuildID, err)
	}
}

// onVoiceServerUpdate relays the voice server handshake to the audio node.
func (b *Bot) onVoiceServerUpdate(s *discordgo.Session, ev *discordgo.VoiceServerUpdate) {
	b.router.OnVoiceServerUpdate(player.VoiceServerEvent{
		GuildID:  ev.GuildID,
		Endpoint: ev.Endpoint,
		Token:    ev.Token,
	})
}

// stateOccupancy counts humans in a voice channel from the session state cache.
type stateOccupancy struct {
	dg *discordgo.Session
}

func (o *stateOccupancy) HumanCount(guildID, channelID string) int {
	guild, err := o.dg.State.Guild(guildID)
	if err != nil {
		return 0
	}

	count := 0
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID != channelID {
			continue
		}
		member, err := o.dg.State.Member(guildID, vs.UserID)
		if err != nil || member.User == nil || member.User.Bot {
			continue
		}
		count++
	}
	return count
}

// gatewayVoice drops the bot's voice connection for a guild.
type gatewayVoice struct {
	dg *discordgo.Session
}

func (g *gatewayVoice) Disconnect(ctx context.Context, guildID string) error {
	return g.dg.ChannelVoiceJoinManual(guildID, "", false, false)
}
