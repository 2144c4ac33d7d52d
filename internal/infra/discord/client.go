package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"dungeon_schedule_bot/internal/domain/display"
	"dungeon_schedule_bot/internal/domain/sink"
)

// SessionAdapter implements the sink interface on top of a discordgo session,
// pinned to a single channel.
type SessionAdapter struct {
	session   *discordgo.Session
	channelID string
}

func NewSessionAdapter(session *discordgo.Session, channelID string) *SessionAdapter {
	return &SessionAdapter{session: session, channelID: channelID}
}

func (a *SessionAdapter) Send(ctx context.Context, text string) (sink.MessageRef, error) {
	msg, err := a.session.ChannelMessageSend(a.channelID, text, discordgo.WithContext(ctx))
	if err != nil {
		return sink.MessageRef{}, classifyError(err)
	}
	return sink.MessageRef{ChannelID: msg.ChannelID, MessageID: msg.ID}, nil
}

func (a *SessionAdapter) SendEmbed(ctx context.Context, embed display.Embed) (sink.MessageRef, error) {
	msg, err := a.session.ChannelMessageSendEmbed(a.channelID, toMessageEmbed(embed), discordgo.WithContext(ctx))
	if err != nil {
		return sink.MessageRef{}, classifyError(err)
	}
	return sink.MessageRef{ChannelID: msg.ChannelID, MessageID: msg.ID}, nil
}

func (a *SessionAdapter) EditEmbed(ctx context.Context, ref sink.MessageRef, embed display.Embed) error {
	_, err := a.session.ChannelMessageEditEmbed(ref.ChannelID, ref.MessageID, toMessageEmbed(embed), discordgo.WithContext(ctx))
	if err != nil {
		return classifyError(err)
	}
	return nil
}

func (a *SessionAdapter) Delete(ctx context.Context, ref sink.MessageRef) error {
	if err := a.session.ChannelMessageDelete(ref.ChannelID, ref.MessageID, discordgo.WithContext(ctx)); err != nil {
		return classifyError(err)
	}
	return nil
}

func (a *SessionAdapter) RecentMessages(ctx context.Context, limit int) ([]sink.Message, error) {
	msgs, err := a.session.ChannelMessages(a.channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, classifyError(err)
	}

	selfID := ""
	if a.session.State != nil && a.session.State.User != nil {
		selfID = a.session.State.User.ID
	}

	out := make([]sink.Message, 0, len(msgs))
	for _, m := range msgs {
		sm := sink.Message{
			Ref:   sink.MessageRef{ChannelID: m.ChannelID, MessageID: m.ID},
			IsOwn: m.Author != nil && m.Author.ID == selfID,
		}
		if len(m.Embeds) > 0 {
			sm.EmbedTitle = m.Embeds[0].Title
		}
		out = append(out, sm)
	}
	return out, nil
}

var _ sink.Sink = (*SessionAdapter)(nil)

func toMessageEmbed(e display.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	for _, f := range e.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: false,
		})
	}
	if e.FooterText != "" {
		out.Footer = &discordgo.MessageEmbedFooter{Text: e.FooterText}
	}
	if !e.Timestamp.IsZero() {
		out.Timestamp = e.Timestamp.UTC().Format(time.RFC3339)
	}
	return out
}

// classifyError maps Discord REST failures onto the sink error taxonomy.
// Anything that is neither a missing resource nor a permission problem passes
// through unchanged and is treated as transient by callers.
func classifyError(err error) error {
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) {
		return err
	}
	if rest.Message != nil {
		switch rest.Message.Code {
		case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel:
			return fmt.Errorf("%w: %v", sink.ErrNotFound, err)
		case discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeMissingAccess:
			return fmt.Errorf("%w: %v", sink.ErrForbidden, err)
		}
	}
	if rest.Response != nil {
		switch rest.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", sink.ErrNotFound, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %v", sink.ErrForbidden, err)
		}
	}
	return err
}
