package vetting

import (
	"errors"
	"testing"

	"github.com/vetbotio/vetbot/internal/channel"
)

func platformMessage(text string, actions ...channel.Action) channel.InboundMessage {
	return channel.InboundMessage{
		Channel: channel.ChannelType("slack"),
		Message: channel.Message{
			ID:      "1753295337.014299",
			Text:    text,
			Actions: actions,
		},
		Sender:       channel.Identity{SubjectID: "B08V222T3DE", DisplayName: PlatformBotName},
		Conversation: channel.Conversation{ID: "C08UK5BBA90"},
	}
}

func assessmentButton(url string) channel.Action {
	return channel.Action{
		Type:  "button",
		Label: ViewAssessmentLabel,
		Value: ViewAssessmentLabel,
		URL:   url,
	}
}

func TestExtractNewAssessment(t *testing.T) {
	e := NewExtractor("", "")
	msg := platformMessage(
		"A new Assessment is available for Windy",
		assessmentButton("https://app.nowsecure.com/app/4e64d9f2-67ea-11f0-b9a8-aff90e5cdf17/assessment/51ae3f5e-67ea-11f0-a4ca-13a2b5de6b23"),
	)
	ref, err := e.Extract(msg)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ref.AppName != "Windy" {
		t.Fatalf("app name = %q", ref.AppName)
	}
	if ref.AssessmentID != "51ae3f5e-67ea-11f0-a4ca-13a2b5de6b23" {
		t.Fatalf("assessment id = %q", ref.AssessmentID)
	}
}

func TestExtractFailedAssessment(t *testing.T) {
	e := NewExtractor("", "")
	msg := platformMessage(
		"The latest assessment for My App failed",
		assessmentButton("https://app.nowsecure.com/app/x/assessment/0f0e0d0c-0b0a-0908-0706-050403020100"),
	)
	ref, err := e.Extract(msg)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ref.AppName != "My App" {
		t.Fatalf("app name = %q", ref.AppName)
	}
}

func TestExtractFirstMatchingButtonWins(t *testing.T) {
	e := NewExtractor("", "")
	msg := platformMessage(
		"A new Assessment is available for Windy",
		assessmentButton("https://app.nowsecure.com/app/x/assessment/11111111-2222-3333-4444-555555555555"),
		assessmentButton("https://app.nowsecure.com/app/x/assessment/66666666-7777-8888-9999-aaaaaaaaaaaa"),
	)
	ref, err := e.Extract(msg)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ref.AssessmentID != "11111111-2222-3333-4444-555555555555" {
		t.Fatalf("assessment id = %q, want first button's", ref.AssessmentID)
	}
}

func TestExtractFailures(t *testing.T) {
	e := NewExtractor("", "")
	tests := []struct {
		name string
		msg  channel.InboundMessage
		want error
	}{
		{
			name: "human sender",
			msg: channel.InboundMessage{
				Message: channel.Message{Text: "A new Assessment is available for Windy"},
				Sender:  channel.Identity{SubjectID: "U777"},
			},
			want: ErrNotPlatformBot,
		},
		{
			name: "other bot",
			msg: channel.InboundMessage{
				Message: channel.Message{Text: "A new Assessment is available for Windy"},
				Sender:  channel.Identity{DisplayName: "Some Other Bot"},
			},
			want: ErrNotPlatformBot,
		},
		{
			name: "unrecognized phrasing",
			msg:  platformMessage("Your weekly summary is ready"),
			want: ErrNoNotification,
		},
		{
			name: "trailing text after phrasing",
			msg:  platformMessage("A new Assessment is available for Windy\nSee below."),
			want: ErrNoNotification,
		},
		{
			name: "no action button",
			msg:  platformMessage("A new Assessment is available for Windy"),
			want: ErrNoActionLink,
		},
		{
			name: "button without url",
			msg: platformMessage("A new Assessment is available for Windy",
				channel.Action{Type: "button", Label: ViewAssessmentLabel}),
			want: ErrNoActionLink,
		},
		{
			name: "link without uuid",
			msg: platformMessage("A new Assessment is available for Windy",
				assessmentButton("https://app.nowsecure.com/app/x/assessment/not-a-uuid")),
			want: ErrNoAssessmentID,
		},
		{
			name: "uuid not at end of link",
			msg: platformMessage("A new Assessment is available for Windy",
				assessmentButton("https://app.nowsecure.com/assessment/11111111-2222-3333-4444-555555555555/details")),
			want: ErrNoAssessmentID,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Extract(tt.msg)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExtractTrimsAppName(t *testing.T) {
	e := NewExtractor("", "")
	msg := platformMessage(
		"A new Assessment is available for   Windy ",
		assessmentButton("https://app.nowsecure.com/app/x/assessment/0f0e0d0c-0b0a-0908-0706-050403020100"),
	)
	ref, err := e.Extract(msg)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ref.AppName != "Windy" {
		t.Fatalf("app name = %q, want trimmed", ref.AppName)
	}
}
