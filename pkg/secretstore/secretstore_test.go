package secretstore

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, key []byte) *Store {
	t.Helper()
	s, err := Open(OpenOptions{Path: filepath.Join(t.TempDir(), "store"), EncryptionKey: key})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(OpenOptions{Path: "  "})
	require.Error(t, err)
}

func TestGetSetRoundTrip(t *testing.T) {
	s := openTestStore(t, nil)

	_, found, err := s.GetString("missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.SetString("k", "v"))
	got, found, err := s.GetString("k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", got)
}

func TestEmptyValueIsFound(t *testing.T) {
	s := openTestStore(t, nil)

	require.NoError(t, s.SetString("blank", ""))
	got, found, err := s.GetString("blank")
	require.NoError(t, err)
	assert.True(t, found, "空值与缺失必须可区分")
	assert.Equal(t, "", got)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t, nil)

	require.NoError(t, s.SetString("k", "v"))
	require.NoError(t, s.Delete("k"))
	_, found, err := s.GetString("k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCredentialsRoundTrip(t *testing.T) {
	s := openTestStore(t, nil)

	creds, err := s.LoadCredentials()
	require.NoError(t, err)
	assert.False(t, creds.Complete())

	require.NoError(t, s.SaveCredentials(Credentials{Key: "ak", Secret: "sk"}))
	creds, err = s.LoadCredentials()
	require.NoError(t, err)
	assert.True(t, creds.Complete())
	assert.Equal(t, "ak", creds.Key)
	assert.Equal(t, "sk", creds.Secret)
}

func TestSaveCredentialsRejectsIncomplete(t *testing.T) {
	s := openTestStore(t, nil)

	require.Error(t, s.SaveCredentials(Credentials{Key: "ak"}))
	require.Error(t, s.SaveCredentials(Credentials{Secret: "sk"}))
	require.Error(t, s.SaveCredentials(Credentials{}))
}

func TestEncryptedStoreReopen(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "enc")
	s, err := Open(OpenOptions{Path: dir, EncryptionKey: key})
	require.NoError(t, err)
	require.NoError(t, s.SaveCredentials(Credentials{Key: "ak", Secret: "sk"}))
	require.NoError(t, s.Close())

	// 同一密钥重开必须能读回
	s, err = Open(OpenOptions{Path: dir, EncryptionKey: key})
	require.NoError(t, err)
	defer s.Close()
	creds, err := s.LoadCredentials()
	require.NoError(t, err)
	assert.Equal(t, "ak", creds.Key)
	assert.Equal(t, "sk", creds.Secret)
}

func TestParseKey(t *testing.T) {
	raw := make([]byte, 32)
	_, err := rand.Read(raw)
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		b, err := ParseKey("   ")
		require.NoError(t, err)
		assert.Nil(t, b)
	})

	t.Run("hex", func(t *testing.T) {
		b, err := ParseKey(hex.EncodeToString(raw))
		require.NoError(t, err)
		assert.Equal(t, raw, b)
	})

	t.Run("hex with 0x prefix", func(t *testing.T) {
		b, err := ParseKey("0x" + hex.EncodeToString(raw))
		require.NoError(t, err)
		assert.Equal(t, raw, b)
	})

	t.Run("base64", func(t *testing.T) {
		b, err := ParseKey(base64.StdEncoding.EncodeToString(raw))
		require.NoError(t, err)
		assert.Equal(t, raw, b)
	})

	t.Run("wrong length hex", func(t *testing.T) {
		_, err := ParseKey(hex.EncodeToString(raw[:16]))
		require.Error(t, err)
	})

	t.Run("wrong length base64", func(t *testing.T) {
		_, err := ParseKey(base64.StdEncoding.EncodeToString(raw[:8]))
		require.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseKey("not-a-key!!")
		require.Error(t, err)
	})
}
