package models

import (
	"fmt"
	"strings"
)

type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformThreads   Platform = "threads"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformTiktok    Platform = "tiktok"
	PlatformYoutube   Platform = "youtube"
)

var platformNames = map[Platform]string{
	PlatformTwitter:   "Twitter",
	PlatformLinkedIn:  "LinkedIn",
	PlatformThreads:   "Threads",
	PlatformInstagram: "Instagram",
	PlatformFacebook:  "Facebook",
	PlatformTiktok:    "TikTok",
	PlatformYoutube:   "YouTube",
}

// ParsePlatform accepts the lowercase platform tag used by the remote API.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := platformNames[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPlatform, s)
	}
	return p, nil
}

func (p Platform) String() string {
	return string(p)
}

func (p Platform) DisplayName() string {
	if name, ok := platformNames[p]; ok {
		return name
	}
	return string(p)
}
