package slack

import (
	"context"
	"fmt"

	orchestrators "github.com/ochairo/casebot/internal/domain-orchestrators"
)

// ChannelReply posts orchestrator answers to one channel
type ChannelReply struct {
	web     *WebClient
	channel string
}

// NewChannelReply creates a reply sink for channel
func NewChannelReply(web *WebClient, channel string) *ChannelReply {
	return &ChannelReply{web: web, channel: channel}
}

// SendText posts a plain message
func (r *ChannelReply) SendText(ctx context.Context, text string) error {
	return r.web.PostMessage(ctx, PostMessage{Channel: r.channel, Text: text})
}

// SendConfirmation posts the confirmation blocks with a text fallback
func (r *ChannelReply) SendConfirmation(ctx context.Context, c orchestrators.Confirmation) error {
	return r.web.PostMessage(ctx, PostMessage{
		Channel: r.channel,
		Text:    fmt.Sprintf("Found test case: %s", c.Record.Title),
		Blocks:  ConfirmationBlocks(c),
	})
}
