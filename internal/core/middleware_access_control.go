package core

import (
	"github.com/bwmarrin/discordgo"
)

// WithAccessControl wraps a command to enforce admin or developer access
// where the command requires it.
func WithAccessControl() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				var (
					session *discordgo.Session
					member  *discordgo.Member
					event   *discordgo.InteractionCreate
					guildID string
				)

				switch v := ctx.(type) {
				case *SlashInteractionContext:
					session, member, event, guildID = v.Session, v.Event.Member, v.Event, v.Event.GuildID
				case *ComponentInteractionContext:
					session, member, event, guildID = v.Session, v.Event.Member, v.Event, v.Event.GuildID
				default:
					return cmd.Run(ctx)
				}

				if cmd.RequireDev() {
					if member == nil || !IsDeveloper(member.User.ID) {
						return RespondEphemeral(session, event, "This command is reserved for the bot developer.")
					}
				}

				if cmd.RequireAdmin() {
					if guildID == "" || member == nil {
						return RespondEphemeral(session, event, "Cannot determine your admin status in this context.")
					}
					if !IsAdministrator(session, guildID, member) {
						return RespondEphemeral(session, event, "You must be a server admin to use this command.")
					}
				}

				return cmd.Run(ctx)
			},
		}
	}
}
