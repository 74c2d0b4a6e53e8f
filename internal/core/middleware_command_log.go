package core

import (
	"log"
)

// WithCommandLogger wraps a command to log its execution
func WithCommandLogger() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				// Run the actual command first
				err := cmd.Run(ctx)

				// Then try to log its execution
				switch v := ctx.(type) {

				case *SlashInteractionContext:
					member := v.Event.Member
					if member == nil || v.Storage == nil {
						break
					}
					user := member.User
					param := firstStringOption(v.Event)
					if e := LogCommand(v.Session, v.Storage, v.Event.GuildID, v.Event.ChannelID, user.ID, user.Username, cmd.Name(), param); e != nil {
						log.Printf("[WARN] Failed to log command /%s: %v", cmd.Name(), e)
					}

				case *ComponentInteractionContext:
					member := v.Event.Member
					if member == nil || v.Storage == nil {
						break
					}
					user := member.User
					if e := LogCommand(v.Session, v.Storage, v.Event.GuildID, v.Event.ChannelID, user.ID, user.Username, cmd.Name(), ""); e != nil {
						log.Printf("[WARN] Failed to log component command /%s: %v", cmd.Name(), e)
					}
				}

				return err
			},
		}
	}
}
