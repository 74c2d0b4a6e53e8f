// Package music holds the slash commands that drive guild playback. They are
// constructed with the running bot instance, so registration happens in the
// discord package rather than via init.
package music

import (
	"fmt"

	"tunekeeper/internal/core"
	"tunekeeper/internal/player"
)

// All builds every music command bound to the given bot.
func All(bot core.BotMusic) []core.Command {
	cmds := []core.Command{
		&PlayCommand{Bot: bot},
		&SkipCommand{Bot: bot},
		&StopCommand{Bot: bot},
		&PauseCommand{Bot: bot},
		&ResumeCommand{Bot: bot},
		&SeekCommand{Bot: bot},
		&QueueCommand{Bot: bot},
		&RemoveCommand{Bot: bot},
		&ShuffleCommand{Bot: bot},
		&LoopCommand{Bot: bot},
		&AutoplayCommand{Bot: bot},
		&NowPlayingCommand{Bot: bot},
		&LeaveCommand{Bot: bot},
		&HistoryCommand{},
		&AnnounceCommand{},
	}

	wrapped := make([]core.Command, 0, len(cmds))
	for _, c := range cmds {
		wrapped = append(wrapped, core.ApplyMiddlewares(
			c,
			core.WithGuildOnly(),
			core.WithAccessControl(),
			core.WithCommandLogger(),
		))
	}
	return wrapped
}

// trackLine renders a track as a markdown link with its requester mention.
func trackLine(t player.Track) string {
	line := t.Title
	if t.URI != "" {
		line = fmt.Sprintf("[%s](%s)", t.Title, t.URI)
	}
	if t.Requester != "" {
		line += fmt.Sprintf(" · <@%s>", t.Requester)
	}
	return line
}

// activePlayer fetches the guild's player, or nil when the bot is not in
// voice there.
func activePlayer(bot core.BotMusic, guildID string) *player.Player {
	return bot.Player(guildID)
}
