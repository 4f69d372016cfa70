package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadFileCodecs(t *testing.T) {
	db := testDB(t)
	for _, tt := range []struct {
		name  string
		codec Codec
	}{
		{name: "raw", codec: CodecRaw},
		{name: "zstd", codec: CodecZstd},
		{name: "lz4", codec: CodecLZ4},
	} {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sig.db")
			require.NoError(t, SaveFile(path, db, tt.codec))

			loaded, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, db.Labels(), loaded.Labels())
			for _, label := range db.Labels() {
				want, err := db.Get(label)
				require.NoError(t, err)
				got, err := loaded.Get(label)
				require.NoError(t, err)
				assert.True(t, want.Equal(got), label)
			}
		})
	}
}

func TestSaveFileUnknownCodec(t *testing.T) {
	db := testDB(t)
	path := filepath.Join(t.TempDir(), "sig.db")
	require.Error(t, SaveFile(path, db, Codec(42)))
	// A failed save must not leave the target behind.
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadFileBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sig.db")
	require.NoError(t, os.WriteFile(path, []byte("not a database"), 0644))
	_, err := LoadFile(path)
	require.ErrorIs(t, err, ErrCorruptDatabase)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.db"))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrCorruptDatabase)
}
