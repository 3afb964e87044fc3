package handler

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsfield/fieldserve/internal/api/storage"
)

func TestJobCursorRoundTrip(t *testing.T) {
	in := &storage.JobCursor{
		CreatedAt: time.Date(2026, 8, 20, 15, 4, 5, 123456789, time.UTC),
		JobID:     "9d0b6f3a-8f1c-4f5e-a9a7-4f1f53f6f010",
	}

	out, err := DecodeJobCursor(EncodeJobCursor(in))
	require.NoError(t, err)
	assert.True(t, out.CreatedAt.Equal(in.CreatedAt))
	assert.Equal(t, in.JobID, out.JobID)
}

func TestDecodeJobCursor(t *testing.T) {
	t.Run("empty cursor means first page", func(t *testing.T) {
		out, err := DecodeJobCursor("")
		require.NoError(t, err)
		assert.Nil(t, out)
	})

	t.Run("not base64", func(t *testing.T) {
		_, err := DecodeJobCursor("%%")
		assert.Error(t, err)
	})

	t.Run("wrong part count", func(t *testing.T) {
		_, err := DecodeJobCursor(base64.StdEncoding.EncodeToString([]byte("12345")))
		assert.Error(t, err)
	})

	t.Run("non-numeric timestamp", func(t *testing.T) {
		_, err := DecodeJobCursor(base64.StdEncoding.EncodeToString([]byte("abc|job-1")))
		assert.Error(t, err)
	})
}
