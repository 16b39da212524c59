package slack

import (
	orchestrators "github.com/ochairo/casebot/internal/domain-orchestrators"
)

// Block is a Block Kit layout block
type Block struct {
	Type     string        `json:"type"`
	Text     *TextObject   `json:"text,omitempty"`
	Elements []BlockAction `json:"elements,omitempty"`
}

// TextObject is a Block Kit text composition object
type TextObject struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

// BlockAction is an interactive element inside an actions block
type BlockAction struct {
	Type     string      `json:"type"`
	Text     *TextObject `json:"text,omitempty"`
	Value    string      `json:"value,omitempty"`
	ActionID string      `json:"action_id"`
	Style    string      `json:"style,omitempty"`
}

// ConfirmationBlocks renders a confirmation with Run Test and Cancel buttons
func ConfirmationBlocks(c orchestrators.Confirmation) []Block {
	return []Block{
		{
			Type: "section",
			Text: &TextObject{Type: "mrkdwn", Text: orchestrators.ConfirmationText(c)},
		},
		{
			Type: "actions",
			Elements: []BlockAction{
				{
					Type:     "button",
					Text:     &TextObject{Type: "plain_text", Text: "Run Test", Emoji: true},
					Value:    c.Resolution.Path,
					ActionID: orchestrators.ActionRunTest,
					Style:    "primary",
				},
				{
					Type:     "button",
					Text:     &TextObject{Type: "plain_text", Text: "Cancel", Emoji: true},
					ActionID: orchestrators.ActionCancel,
					Style:    "danger",
				},
			},
		},
	}
}
