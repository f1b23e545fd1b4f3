package chatbot

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatTimestamp renders a playback offset as MM:SS. Minutes are not rolled
// into hours: 3661 seconds is "61:01", matching how platform time links
// address long recordings.
func FormatTimestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// linkRule maps a host fragment to that platform's time-link format. The
// first matching rule wins; supporting a new platform is one more row.
type linkRule struct {
	host   string
	format func(url string, seconds int) string
}

var linkRules = []linkRule{
	{host: "youtube.com", format: queryTimeLink},
	{host: "youtu.be", format: queryTimeLink},
	{host: "spotify.com", format: fragmentTimeLink},
}

// TimestampLink appends a playback offset to a platform URL. An empty URL
// yields an empty link so callers can omit the field entirely.
func TimestampLink(url string, seconds int) string {
	if url == "" {
		return ""
	}
	for _, rule := range linkRules {
		if strings.Contains(url, rule.host) {
			return rule.format(url, seconds)
		}
	}
	return fragmentTimeLink(url, seconds)
}

// queryTimeLink carries the offset as a t= query parameter (YouTube style).
func queryTimeLink(url string, seconds int) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "t=" + strconv.Itoa(seconds)
}

// fragmentTimeLink carries the offset as a #t= fragment (Spotify and the
// generic fallback).
func fragmentTimeLink(url string, seconds int) string {
	return url + "#t=" + strconv.Itoa(seconds)
}
