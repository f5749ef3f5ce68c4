// Package buzz implements the video discovery pipeline: collecting candidate
// ids, fetching per-video and per-channel metadata, and filtering for videos
// whose view counts are out of proportion to their channel size.
package buzz

import "time"

// VideoIDLength is the fixed length of a YouTube video identifier.
const VideoIDLength = 11

// WatchURLBase is the canonical watch URL prefix a video id is appended to.
const WatchURLBase = "https://www.youtube.com/watch?v="

// Record holds the metadata for one candidate video. PublishedAt is the zero
// time when the upstream source omitted it or it failed to parse.
// SubscriberCount is resolved by the filter; it is meaningful only on records
// the filter returned.
type Record struct {
	VideoID         string
	Title           string
	ChannelID       string
	ChannelName     string
	ViewCount       int64
	DurationSeconds int64
	PublishedAt     time.Time
	SubscriberCount int64
}

// WatchURL returns the canonical watch URL for the record.
func (r Record) WatchURL() string {
	return WatchURLBase + r.VideoID
}

// Subscribers is a channel's subscriber total. Known is false when the
// platform hides the count or the lookup failed; such channels are excluded
// from filtering rather than treated as zero.
type Subscribers struct {
	Count int64
	Known bool
}
