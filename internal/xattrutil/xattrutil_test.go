package xattrutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeSortsKeys(t *testing.T) {
	data, err := Encode(map[string]string{"zeta": "1", "alpha": "2"})
	require.NoError(t, err)
	require.Equal(t, "alpha=2\nzeta=1\n", string(data))
}

func TestEncodeRejectsKeyWithEquals(t *testing.T) {
	_, err := Encode(map[string]string{"a=b": "1"})
	require.Error(t, err)
}

func TestDecodeRejectsDuplicateKey(t *testing.T) {
	_, err := Decode([]byte("a=1\na=2\n"))
	require.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	attrs := map[string]string{"owner": "svc-a", "tier": "prod"}
	data, err := Encode(attrs)
	require.NoError(t, err)
	back, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, attrs, back)
}

func TestValidateAttributeNameRejectsBadChars(t *testing.T) {
	require.NoError(t, ValidateAttributeName("capkit.label"))
	require.Error(t, ValidateAttributeName("capkit label"))
	require.Error(t, ValidateAttributeName(""))
}
