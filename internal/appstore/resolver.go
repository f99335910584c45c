// Package appstore resolves public app-store URLs into platform descriptors
// suitable for assessment submission. Google Play URLs carry the package name
// directly; Apple App Store URLs carry a numeric track ID that must be
// resolved to a bundle ID through the iTunes lookup API.
package appstore

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

// Platform is the mobile platform an app descriptor targets.
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
)

// Label returns the human-facing platform name used in user replies.
func (p Platform) Label() string {
	switch p {
	case PlatformIOS:
		return "iOS"
	case PlatformAndroid:
		return "Android"
	default:
		return string(p)
	}
}

// Descriptor identifies an app ready for submission.
type Descriptor struct {
	Platform Platform
	BundleID string
	URL      string
}

// Resolution failures. Each maps to a distinct user-facing message via
// UserMessage.
var (
	// ErrInvalidURL means the input is not an absolute URL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrNoPackageName means a Play Store URL lacks the id query parameter.
	ErrNoPackageName = errors.New("no package name in play store url")
	// ErrNoBundleID means an App Store URL lacks a numeric /id segment.
	ErrNoBundleID = errors.New("no app id in app store url")
	// ErrUnknownApp means the iTunes lookup found no app for the numeric ID.
	ErrUnknownApp = errors.New("unknown app id")
	// ErrLookupFailed means the iTunes lookup itself failed.
	ErrLookupFailed = errors.New("bundle id lookup failed")
	// ErrNotStoreURL means the URL belongs to neither supported store.
	ErrNotStoreURL = errors.New("not an app store url")
)

// UserMessage maps a resolution failure to the reply shown to the user.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoPackageName):
		return "❌ Invalid URL or unable to extract package name."
	case errors.Is(err, ErrNoBundleID):
		return "❌ Invalid URL or unable to extract bundle ID."
	case errors.Is(err, ErrUnknownApp):
		return "❌ Invalid app ID."
	case errors.Is(err, ErrLookupFailed):
		return "❌ Unable to retrieve bundle ID."
	case errors.Is(err, ErrNotStoreURL):
		return "❌ Invalid App Store URL"
	default:
		return "❌ Invalid URL"
	}
}

const (
	playStorePrefix = "https://play.google.com/store/apps/"
	appStorePrefix  = "https://apps.apple.com/"
)

var appleIDRe = regexp.MustCompile(`/id(\d+)`)

// BundleLookup resolves an Apple numeric app ID to its bundle ID.
type BundleLookup interface {
	BundleID(ctx context.Context, appID string) (string, error)
}

// Resolver turns raw store URLs into app descriptors.
type Resolver struct {
	logger *slog.Logger
	lookup BundleLookup
}

// NewResolver creates a Resolver using lookup for Apple numeric IDs.
func NewResolver(log *slog.Logger, lookup BundleLookup) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		logger: log.With(slog.String("component", "appstore_resolver")),
		lookup: lookup,
	}
}

// Resolve classifies rawURL by store prefix and extracts the platform bundle
// identifier. The decision tree is closed: a URL matching a store prefix is
// decided within that branch and never falls through to the other store.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (Descriptor, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Descriptor{}, ErrInvalidURL
	}

	if strings.HasPrefix(rawURL, playStorePrefix) {
		bundleID := parsed.Query().Get("id")
		if bundleID == "" {
			return Descriptor{}, ErrNoPackageName
		}
		r.logger.Debug("resolved play store url", slog.String("bundle_id", bundleID))
		return Descriptor{Platform: PlatformAndroid, BundleID: bundleID, URL: rawURL}, nil
	}

	if strings.HasPrefix(rawURL, appStorePrefix) {
		m := appleIDRe.FindStringSubmatch(rawURL)
		if m == nil {
			return Descriptor{}, ErrNoBundleID
		}
		bundleID, err := r.lookup.BundleID(ctx, m[1])
		if err != nil {
			if errors.Is(err, ErrUnknownApp) {
				return Descriptor{}, ErrUnknownApp
			}
			r.logger.Warn("itunes lookup failed", slog.String("app_id", m[1]), slog.Any("error", err))
			return Descriptor{}, ErrLookupFailed
		}
		r.logger.Debug("resolved app store url",
			slog.String("app_id", m[1]), slog.String("bundle_id", bundleID))
		return Descriptor{Platform: PlatformIOS, BundleID: bundleID, URL: rawURL}, nil
	}

	return Descriptor{}, ErrNotStoreURL
}
