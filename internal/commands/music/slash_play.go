package music

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tunekeeper/internal/audionode"
	"tunekeeper/internal/core"
	"tunekeeper/internal/player"

	"github.com/bwmarrin/discordgo"
)

type PlayCommand struct {
	Bot core.BotMusic
}

func (c *PlayCommand) Name() string        { return "play" }
func (c *PlayCommand) Description() string { return "Play a track, playlist or search query" }
func (c *PlayCommand) Aliases() []string   { return []string{} }
func (c *PlayCommand) Group() string       { return "music" }
func (c *PlayCommand) Category() string    { return "🎵 Music" }
func (c *PlayCommand) RequireAdmin() bool  { return false }
func (c *PlayCommand) RequireDev() bool    { return false }

func (c *PlayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionString,
				Name:         "query",
				Description:  "Link to a track or playlist, or a song name",
				Required:     true,
				Autocomplete: true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "next",
				Description: "Put the result at the front of the queue",
				Required:    false,
			},
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "shuffle",
				Description: "Shuffle a playlist before queueing it",
				Required:    false,
			},
		},
	}
}

// Autocomplete suggests search hits while the user types a query. Links are
// not completed, they go to the resolver as-is.
func (c *PlayCommand) Autocomplete(sctx *core.SlashInteractionContext) error {
	session, event := sctx.Session, sctx.Event

	var query string
	for _, opt := range event.ApplicationCommandData().Options {
		if opt.Name == "query" && opt.Focused {
			query = opt.StringValue()
		}
	}
	if len(query) < 3 || strings.HasPrefix(query, "http") {
		return core.RespondChoices(session, event, nil)
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hits, err := c.Bot.Search(reqCtx, query)
	if err != nil {
		return err
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(hits))
	for _, hit := range hits {
		name := fmt.Sprintf("%s · %s", hit.Title, hit.Author)
		if r := []rune(name); len(r) > 100 {
			name = string(r[:97]) + "..."
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  name,
			Value: hit.URI,
		})
	}
	return core.RespondChoices(session, event, choices)
}

func (c *PlayCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	session := sctx.Session
	event := sctx.Event
	guildID := event.GuildID
	member := event.Member

	var query string
	var playNext, shufflePlaylist bool
	for _, opt := range event.ApplicationCommandData().Options {
		switch opt.Name {
		case "query":
			query = opt.StringValue()
		case "next":
			playNext = opt.BoolValue()
		case "shuffle":
			shufflePlaylist = opt.BoolValue()
		}
	}
	if query == "" {
		return core.RespondEphemeral(session, event, "🎵 Error: query is required")
	}

	voiceState, err := c.Bot.FindUserVoiceState(guildID, member.User.ID)
	if err != nil {
		return core.RespondEphemeral(session, event, "🎵 Join a voice channel first.")
	}

	if err := core.RespondDeferred(session, event); err != nil {
		return fmt.Errorf("failed to send deferred response: %w", err)
	}

	reqCtx := context.Background()
	p, err := c.Bot.Join(reqCtx, guildID, voiceState.ChannelID, event.ChannelID)
	if err != nil {
		return core.FollowupEphemeral(session, event, fmt.Sprintf("🎵 Error: %v", err))
	}

	result, err := c.Bot.ResolveQuery(reqCtx, query, member.User.ID)
	if err != nil {
		return core.FollowupEphemeral(session, event, fmt.Sprintf("🎵 Error: failed to resolve track: %v", err))
	}
	if result.Type == audionode.LoadEmpty || len(result.Tracks) == 0 {
		return core.FollowupEphemeral(session, event, fmt.Sprintf("🎵 Nothing found for `%s`", query))
	}

	opts := player.EnqueueOptions{ShufflePlaylist: shufflePlaylist}
	if playNext {
		opts.Position = player.PositionHead
	}
	started, err := p.Play(reqCtx, result.Tracks, opts)
	if err != nil {
		return core.FollowupEphemeral(session, event, fmt.Sprintf("🎵 Error: %v", err))
	}

	embed := &discordgo.MessageEmbed{}
	switch {
	case result.Type == audionode.LoadPlaylist:
		embed.Title = "🎶 Playlist queued"
		embed.Description = fmt.Sprintf("**%s** · %d tracks", result.PlaylistName, len(result.Tracks))
	case started:
		embed.Title = "▶️ Now playing"
		embed.Description = trackLine(result.Tracks[0])
	default:
		embed.Title = "🎶 Track queued"
		embed.Description = trackLine(result.Tracks[0])
	}
	return core.FollowupEmbed(session, event, embed)
}
