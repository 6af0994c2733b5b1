package b64url

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	testCases := []struct {
		in   []byte
		want string
	}{
		{in: nil, want: ""},
		{in: []byte("f"), want: "Zg"},
		{in: []byte("fo"), want: "Zm8"},
		{in: []byte("foo"), want: "Zm9v"},
		{in: []byte{0xfb, 0xff, 0xbf}, want: "-_-_"},
		{in: []byte(`{"alg":"HS512","typ":"JWT"}`), want: "eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9"},
	}

	for _, testCase := range testCases {
		require.Equal(t, testCase.want, Encode(testCase.in))
	}
}

func TestEncodeMatchesStdlibAlphabetMapping(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	for n := 0; n <= len(data); n++ {
		std := base64.StdEncoding.EncodeToString(data[:n])
		want := ""
		for _, c := range std {
			switch c {
			case '+':
				want += "-"
			case '/':
				want += "_"
			case '=':
			default:
				want += string(c)
			}
		}
		require.Equal(t, want, Encode(data[:n]), "length %d", n)
	}
}

func TestStringToBytesUTF8(t *testing.T) {
	require.Equal(t, []byte{0x68, 0xc3, 0xa9, 0xe2, 0x82, 0xac}, StringToBytes("hé€"))
	require.Equal(t, "aMOp4oKs", EncodeString("hé€"))
}

func TestDecodeStringRoundTrip(t *testing.T) {
	data := make([]byte, 100)
	for i := range data {
		data[i] = byte(i * 7)
	}
	for n := 0; n <= len(data); n++ {
		got, err := DecodeString(Encode(data[:n]))
		require.NoError(t, err)
		require.Equal(t, data[:n], got[:n])
		require.Len(t, got, n)
	}
}

func TestDecodeStringPadded(t *testing.T) {
	for _, s := range []string{"Zg==", "Zm8=", "Zm9v"} {
		_, err := DecodeString(s)
		require.NoError(t, err, s)
	}
	got, err := DecodeString("Zm8=")
	require.NoError(t, err)
	require.Equal(t, []byte("fo"), got)
}

func TestDecodeStringMalformed(t *testing.T) {
	invalid := []string{
		"Z",
		"Zm9vY",
		"Zm9v+w",
		"Zm9v/w",
		"Zm 9v",
		"Zm\n9v",
		"Zg=",
		"Z===",
		"Zg=a",
		"Zm8=Zm8=",
		"é",
	}

	for _, s := range invalid {
		got, err := DecodeString(s)
		require.Error(t, err, "input: %q", s)
		require.True(t, errors.Is(err, ErrMalformed), "input: %q", s)
		require.Nil(t, got)
	}
}
