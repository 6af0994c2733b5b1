package gwauth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultCredentials(t *testing.T) {
	c := DefaultCredentials()
	require.NoError(t, c.Validate())
	require.Equal(t, "sme-web-app", c.ClientID)
	require.Equal(t, 120*time.Second, c.Validity)
}

func TestCredentialsValidate(t *testing.T) {
	testCases := []struct {
		Desc  string
		Creds *Credentials
	}{
		{
			Desc: "nil credentials",
		},
		{
			Desc:  "empty client id",
			Creds: &Credentials{Secret: []byte("s"), Validity: Validity},
		},
		{
			Desc:  "invalid utf-8 client id",
			Creds: &Credentials{ClientID: "app\xff", Secret: []byte("s"), Validity: Validity},
		},
		{
			Desc:  "empty secret",
			Creds: &Credentials{ClientID: "app", Validity: Validity},
		},
		{
			Desc:  "sub-second validity",
			Creds: &Credentials{ClientID: "app", Secret: []byte("s"), Validity: 500 * time.Millisecond},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Desc, func(t *testing.T) {
			err := testCase.Creds.Validate()
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidCredentials))
		})
	}
}
