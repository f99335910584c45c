// Package vetting implements the two application flows: turning NowSecure
// assessment notifications into threaded PDF report uploads, and handling
// /appvetting slash commands that submit app-store apps for assessment.
package vetting

import "errors"

// Reference identifies an assessment mentioned in a platform notification.
type Reference struct {
	AppName      string
	AssessmentID string
}

// Extraction failures. The first two mark messages that are simply not for
// us; the last two mark platform notifications that are malformed.
var (
	// ErrNotPlatformBot means the message was not posted by the platform bot.
	ErrNotPlatformBot = errors.New("message not from platform bot")
	// ErrNoNotification means the platform bot message is not an assessment notification.
	ErrNoNotification = errors.New("no assessment notification in message")
	// ErrNoActionLink means the notification carries no assessment button link.
	ErrNoActionLink = errors.New("no assessment action link in message")
	// ErrNoAssessmentID means the action link does not end in an assessment UUID.
	ErrNoAssessmentID = errors.New("no assessment id in action link")
)
