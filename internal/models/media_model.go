package models

import "strings"

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// MediaKindFromMIME treats video/* as video and everything else as image.
func MediaKindFromMIME(mime string) MediaKind {
	if strings.HasPrefix(strings.ToLower(mime), "video/") {
		return MediaKindVideo
	}
	return MediaKindImage
}

type MediaState string

const (
	MediaStatePending  MediaState = "pending"
	MediaStateComplete MediaState = "complete"
	MediaStateFailed   MediaState = "failed"
)

type UploadedMediaAsset struct {
	ID       string     `json:"id"`
	PublicID string     `json:"public_id"`
	FileName string     `json:"file_name"`
	MIMEType string     `json:"mime_type"`
	Size     int64      `json:"size"`
	URL      string     `json:"url"`
	Kind     MediaKind  `json:"kind"`
	Progress int        `json:"progress"`
	State    MediaState `json:"state"`
}

func (a *UploadedMediaAsset) IsComplete() bool {
	return a != nil && a.State == MediaStateComplete && a.URL != ""
}

// MediaTypeTag is the tag sent with a scheduled post: text, image or video.
func MediaTypeTag(media []*UploadedMediaAsset) string {
	if len(media) == 0 {
		return "text"
	}
	for _, m := range media {
		if m.Kind == MediaKindVideo {
			return string(MediaKindVideo)
		}
	}
	return string(MediaKindImage)
}

func MediaURLs(media []*UploadedMediaAsset) []string {
	urls := make([]string, 0, len(media))
	for _, m := range media {
		urls = append(urls, m.URL)
	}
	return urls
}
