package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/ben-j-c/bros-server-bot/bot/common"
	"github.com/ben-j-c/bros-server-bot/events"
)

// handleDrawCompleted announces a lottery win in every guild the winner is a
// member of. Announcement is best effort; a failed send never affects the
// already committed draw.
func (b *Bot) handleDrawCompleted(ctx context.Context, event events.Event) {
	draw, ok := event.(events.DrawCompletedEvent)
	if !ok {
		return
	}

	message := fmt.Sprintf("<@%s> won $%s lottery draw with ticket #%d",
		draw.Winner, common.FormatMoney(draw.Pot), draw.WinningTicket)

	for _, guild := range b.session.State.Guilds {
		if _, err := b.session.GuildMember(guild.ID, draw.Winner); err != nil {
			continue
		}

		channelID, err := b.firstTextChannel(guild.ID)
		if err != nil {
			log.Errorf("Error finding announcement channel in guild %s: %v", guild.ID, err)
			continue
		}

		if _, err := b.session.ChannelMessageSend(channelID, message); err != nil {
			log.Errorf("Error announcing draw in guild %s: %v", guild.ID, err)
		}
	}
}

func (b *Bot) firstTextChannel(guildID string) (string, error) {
	channels, err := b.session.GuildChannels(guildID)
	if err != nil {
		return "", fmt.Errorf("failed to list channels: %w", err)
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText {
			return ch.ID, nil
		}
	}
	return "", fmt.Errorf("guild %s has no text channel", guildID)
}
