package application_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/myfoliopanel/internal/application"
)

func TestSecretBox_SealOpenRoundTrip(t *testing.T) {
	box := newBox()
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("open(seal(p)) == p", prop.ForAll(
		func(plaintext []byte) bool {
			sealed, err := box.Seal(ctx, plaintext)
			if err != nil {
				return false
			}
			opened, err := box.Open(ctx, sealed)
			if err != nil {
				return false
			}
			return bytes.Equal(plaintext, opened)
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t)
}

func TestSecretBox_SealUsesFreshNonce(t *testing.T) {
	box := newBox()
	ctx := context.Background()

	a, err := box.Seal(ctx, []byte("same"))
	require.NoError(t, err)
	b, err := box.Seal(ctx, []byte("same"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSecretBox_OpenRejectsTamperedCiphertext(t *testing.T) {
	box := newBox()
	ctx := context.Background()

	sealed, err := box.Seal(ctx, []byte(`{"token":"x"}`))
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sealed)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	_, err = box.Open(ctx, base64.StdEncoding.EncodeToString(raw))
	assert.Error(t, err)
}

func TestSecretBox_OpenRejectsMalformedInput(t *testing.T) {
	box := newBox()
	ctx := context.Background()

	tests := []struct {
		name  string
		input string
	}{
		{name: "not base64", input: "%%%"},
		{name: "shorter than nonce", input: base64.StdEncoding.EncodeToString([]byte("short"))},
		{name: "empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := box.Open(ctx, tt.input)
			assert.Error(t, err)
		})
	}
}

func TestSecretBox_DifferentPassphraseCannotOpen(t *testing.T) {
	ctx := context.Background()
	sealed, err := newBox().Seal(ctx, []byte("secret"))
	require.NoError(t, err)

	other := application.NewSecretBox(application.NewStaticKeyProvider("per-install-secret"))
	_, err = other.Open(ctx, sealed)

	assert.Error(t, err)
}

type failingKeys struct{}

func (failingKeys) Key(context.Context) ([]byte, error) {
	return nil, errors.New("keyring locked")
}

func TestSecretBox_KeyProviderError(t *testing.T) {
	box := application.NewSecretBox(failingKeys{})

	_, err := box.Seal(context.Background(), []byte("x"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "keyring locked")
}

func TestStaticKeyProvider_DefaultsToEmbeddedPassphrase(t *testing.T) {
	ctx := context.Background()

	a, err := application.NewStaticKeyProvider("").Key(ctx)
	require.NoError(t, err)
	b, err := application.NewStaticKeyProvider(application.DefaultPassphrase).Key(ctx)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.Equal(t, a, b)
}
