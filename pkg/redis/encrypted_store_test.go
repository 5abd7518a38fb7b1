package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0000000000000000000000000000000000000000000000000000000000000000"

func TestNewEncryptedStoreValidation(t *testing.T) {
	_, err := NewEncryptedStore("zz", "p:")
	assert.Error(t, err)

	_, err = NewEncryptedStore("0011", "p:")
	assert.Error(t, err)

	store, err := NewEncryptedStore(testKey, "p:")
	assert.NoError(t, err)
	assert.NotNil(t, store)
}

func TestEncryptedStoreEncryptDecrypt(t *testing.T) {
	store, err := NewEncryptedStore(testKey, "p:")
	require.NoError(t, err)

	enc, err := store.encrypt([]byte(`{"x":1}`))
	assert.NoError(t, err)
	assert.NotContains(t, enc, "x")

	dec, err := store.decrypt(enc)
	assert.NoError(t, err)
	assert.Contains(t, string(dec), `"x":1`)

	_, err = store.decrypt("00")
	assert.Error(t, err)

	_, err = store.decrypt("zz-not-hex")
	assert.Error(t, err)
}

func TestEncryptedStoreInvalidKeyMaterial(t *testing.T) {
	store := &EncryptedStore{encryptionKey: []byte("short-key")}
	_, err := store.encrypt([]byte("x"))
	assert.Error(t, err)

	_, err = store.decrypt("00")
	assert.Error(t, err)
}

func TestEncryptedStorePutLoadDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	store, err := NewEncryptedStore(testKey, "receipt:")
	require.NoError(t, err)

	type payload struct {
		Balance string `json:"balance"`
	}
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "abc", payload{Balance: "1500.25"}, time.Minute))

	raw, err := mr.Get("receipt:abc")
	require.NoError(t, err)
	assert.NotContains(t, raw, "1500.25")

	var out payload
	require.NoError(t, store.Load(ctx, "abc", &out))
	assert.Equal(t, "1500.25", out.Balance)

	mr.FastForward(2 * time.Minute)
	assert.True(t, IsNil(store.Load(ctx, "abc", &out)))

	require.NoError(t, store.Put(ctx, "def", payload{}, time.Minute))
	require.NoError(t, store.Delete(ctx, "def"))
	assert.False(t, mr.Exists("receipt:def"))
}
