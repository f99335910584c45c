package vetting

import (
	"regexp"
	"strings"

	"github.com/vetbotio/vetbot/internal/channel"
)

// PlatformBotName is the Slack bot profile name the platform posts
// notifications under.
const PlatformBotName = "NowSecure Platform"

// ViewAssessmentLabel is the button label carrying the assessment link.
const ViewAssessmentLabel = "View Assessment"

// The two accepted notification phrasings. Both are anchored at the end of
// the text so trailing junk invalidates the match.
var (
	newAssessmentRe    = regexp.MustCompile(`A new Assessment is available for (.+)$`)
	failedAssessmentRe = regexp.MustCompile(`The latest assessment for (.+) failed$`)
)

// assessmentIDRe pulls the trailing UUID segment out of an assessment link.
var assessmentIDRe = regexp.MustCompile(`/assessment/([a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12})$`)

// Extractor classifies inbound messages and pulls assessment references out
// of platform notifications.
type Extractor struct {
	botName     string
	actionLabel string
}

// NewExtractor creates an Extractor. Empty botName or actionLabel fall back
// to the platform defaults.
func NewExtractor(botName, actionLabel string) *Extractor {
	if botName == "" {
		botName = PlatformBotName
	}
	if actionLabel == "" {
		actionLabel = ViewAssessmentLabel
	}
	return &Extractor{botName: botName, actionLabel: actionLabel}
}

// Extract returns the assessment reference carried by msg. Messages not from
// the platform bot yield ErrNotPlatformBot; bot messages with unrecognized
// phrasing yield ErrNoNotification. Both mark the message as not for us.
// ErrNoActionLink and ErrNoAssessmentID mark a recognized notification that
// is malformed.
func (e *Extractor) Extract(msg channel.InboundMessage) (Reference, error) {
	if msg.Sender.DisplayName != e.botName {
		return Reference{}, ErrNotPlatformBot
	}

	appName := matchAppName(msg.Message.Text)
	if appName == "" {
		return Reference{}, ErrNoNotification
	}

	link := msg.Message.ActionURL(e.actionLabel)
	if link == "" {
		return Reference{}, ErrNoActionLink
	}

	m := assessmentIDRe.FindStringSubmatch(link)
	if m == nil {
		return Reference{}, ErrNoAssessmentID
	}
	return Reference{AppName: appName, AssessmentID: m[1]}, nil
}

func matchAppName(text string) string {
	for _, re := range []*regexp.Regexp{newAssessmentRe, failedAssessmentRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
