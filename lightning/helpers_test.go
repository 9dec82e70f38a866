package lightning

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/lightningnetwork/lnd/lntypes"
	"github.com/stretchr/testify/require"
)

func testPreimage(t *testing.T) (lntypes.Preimage, lntypes.Hash) {
	t.Helper()

	var raw [32]byte
	copy(raw[:], "a fixed thirty-two byte preimage")
	preimage, err := lntypes.MakePreimage(raw[:])
	require.NoError(t, err)

	return preimage, preimage.Hash()
}

func TestValidatePreimage(t *testing.T) {
	preimage, hash := testPreimage(t)

	t.Run("matching preimage", func(t *testing.T) {
		require.NoError(t, ValidatePreimage(preimage, hash))
	})

	t.Run("mismatching preimage", func(t *testing.T) {
		var other lntypes.Preimage
		other[0] = 0xff
		require.Error(t, ValidatePreimage(other, hash))
	})

	t.Run("hash is sha256", func(t *testing.T) {
		expected := sha256.Sum256(preimage[:])
		require.Equal(t, expected[:], hash[:])
	})
}

func TestPreimageFromBase64(t *testing.T) {
	preimage, _ := testPreimage(t)

	decoded, err := PreimageFromBase64(base64.StdEncoding.EncodeToString(preimage[:]))
	require.NoError(t, err)
	require.Equal(t, preimage, decoded)

	_, err = PreimageFromBase64("!!! not base64 !!!")
	require.Error(t, err)

	_, err = PreimageFromBase64(base64.StdEncoding.EncodeToString([]byte("short")))
	require.Error(t, err)
}

func TestHashFromBase64(t *testing.T) {
	_, hash := testPreimage(t)

	decoded, err := HashFromBase64(base64.StdEncoding.EncodeToString(hash[:]))
	require.NoError(t, err)
	require.Equal(t, hash, decoded)

	_, err = HashFromBase64(base64.StdEncoding.EncodeToString([]byte("short")))
	require.Error(t, err)
}
