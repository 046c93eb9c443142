package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkValidate(t *testing.T) {
	base := Chunk{
		ID:       "01a-auth",
		Name:     "Auth",
		Type:     ChunkImplementation,
		BodyPath: "01a-auth.md",
	}

	tests := []struct {
		name    string
		mutate  func(c *Chunk)
		wantErr string
	}{
		{name: "valid chunk"},
		{
			name:    "missing id",
			mutate:  func(c *Chunk) { c.ID = "" },
			wantErr: "id is required",
		},
		{
			name:    "missing name",
			mutate:  func(c *Chunk) { c.Name = "" },
			wantErr: "name is required",
		},
		{
			name:    "invalid type",
			mutate:  func(c *Chunk) { c.Type = ChunkType("bogus") },
			wantErr: "invalid type",
		},
		{
			name:    "missing body path",
			mutate:  func(c *Chunk) { c.BodyPath = "" },
			wantErr: "body_path is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			if tt.mutate != nil {
				tt.mutate(&c)
			}
			err := c.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestChunkTypeIsValid(t *testing.T) {
	for _, ct := range AllChunkTypes() {
		require.True(t, ct.IsValid())
	}
	require.False(t, ChunkType("unknown").IsValid())
}

func TestChunkResultStatusIsValid(t *testing.T) {
	for _, s := range AllChunkResultStatuses() {
		require.True(t, s.IsValid())
	}
	require.False(t, ChunkResultStatus("unknown").IsValid())
}
