package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	at := time.Date(2026, time.October, 16, 3, 0, 5, 0, time.FixedZone("CEST", 2*60*60))

	tests := []struct {
		name   string
		prefix string
		want   string
	}{
		{"with prefix", "exports", "exports/article-7/20261016T010005Z.html"},
		{"slashes trimmed", "/exports/", "exports/article-7/20261016T010005Z.html"},
		{"nested prefix", "kildeliste/exports", "kildeliste/exports/article-7/20261016T010005Z.html"},
		{"no prefix", "", "article-7/20261016T010005Z.html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectKey(tt.prefix, 7, at))
		})
	}
}
