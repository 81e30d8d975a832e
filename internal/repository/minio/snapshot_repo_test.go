package minio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		prefix, name, want string
	}{
		{prefix: "snapshots", name: "20260301T120000Z-manual", want: "snapshots/20260301T120000Z-manual.json"},
		{prefix: "snapshots/", name: "20260301T120000Z-reset", want: "snapshots/20260301T120000Z-reset.json"},
		{prefix: "", name: "20260301T120000Z-cron", want: "20260301T120000Z-cron.json"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectKey(tt.prefix, tt.name))
		})
	}
}
