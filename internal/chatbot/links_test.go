package chatbot

import "testing"

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{60, "01:00"},
		{332, "05:32"},
		{3661, "61:01"}, // minutes keep counting past the hour
		{-5, "00:00"},
	}
	for _, tc := range cases {
		if got := FormatTimestamp(tc.seconds); got != tc.want {
			t.Errorf("FormatTimestamp(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestTimestampLink(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		seconds int
		want    string
	}{
		{"youtube with query", "https://youtube.com/watch?v=X", 15, "https://youtube.com/watch?v=X&t=15"},
		{"youtube without query", "https://youtube.com/live/stream", 90, "https://youtube.com/live/stream?t=90"},
		{"short youtube", "https://youtu.be/X", 15, "https://youtu.be/X?t=15"},
		{"spotify", "https://open.spotify.com/episode/abc", 30, "https://open.spotify.com/episode/abc#t=30"},
		{"unknown host", "https://example.com/pod.mp3", 45, "https://example.com/pod.mp3#t=45"},
		{"empty url", "", 30, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TimestampLink(tc.url, tc.seconds); got != tc.want {
				t.Errorf("TimestampLink(%q, %d) = %q, want %q", tc.url, tc.seconds, got, tc.want)
			}
		})
	}
}
