package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPluralize(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		singular string
		plural   string
		want     string
	}{
		{
			name:     "zero returns plural",
			count:    0,
			singular: "neighbor",
			plural:   "neighbors",
			want:     "neighbors",
		},
		{
			name:     "one returns singular",
			count:    1,
			singular: "neighbor",
			plural:   "neighbors",
			want:     "neighbor",
		},
		{
			name:     "two returns plural",
			count:    2,
			singular: "neighbor",
			plural:   "neighbors",
			want:     "neighbors",
		},
		{
			name:     "negative returns plural",
			count:    -1,
			singular: "neighbor",
			plural:   "neighbors",
			want:     "neighbors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pluralize(tt.count, tt.singular, tt.plural)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		s    string
		max  int
		want string
	}{
		{
			name: "shorter string unchanged",
			s:    "udp",
			max:  10,
			want: "udp",
		},
		{
			name: "exact length unchanged",
			s:    "tcp",
			max:  3,
			want: "tcp",
		},
		{
			name: "longer string cut",
			s:    "node.example.com:14600",
			max:  12,
			want: "node.example",
		},
		{
			name: "zero max returns empty",
			s:    "anything",
			max:  0,
			want: "",
		},
		{
			name: "negative max returns empty",
			s:    "anything",
			max:  -1,
			want: "",
		},
		{
			name: "multibyte runes counted as one",
			s:    "▲▼▲▼▲",
			max:  3,
			want: "▲▼▲",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.s, tt.max)
			assert.Equal(t, tt.want, got)
		})
	}
}
