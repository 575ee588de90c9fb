package unisat

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testSession() *Session {
	return NewSession("1727712000.123", "0123456789abcdef")
}

func TestSigner_Canonical(t *testing.T) {
	t.Parallel()

	signer := NewSigner(testSession(), rand.New(rand.NewSource(1)))

	tests := []struct {
		name     string
		endpoint string
		params   *Params
		out      string
	}{
		{
			"no params omits the query section",
			"ts2",
			nil,
			"/ts2\n\n1727712000.123@#?.#@" + SignatureMagic,
		},
		{
			"empty params omits the query section",
			"basic-v4/config",
			NewParams(),
			"/basic-v4/config\n\n1727712000.123@#?.#@" + SignatureMagic,
		},
		{
			"params keep insertion order",
			"basic-v4/base/preload",
			NewParams().Set("zeta", "z z").Set("address", "bc1q"),
			"/basic-v4/base/preload?zeta=z+z&address=bc1q\n\n1727712000.123@#?.#@" + SignatureMagic,
		},
		{
			"leading slash is not doubled",
			"/ts2",
			nil,
			"/ts2\n\n1727712000.123@#?.#@" + SignatureMagic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.out, signer.Canonical(tt.endpoint, tt.params))
		})
	}
}

func TestSigner_SignDeterministic(t *testing.T) {
	t.Parallel()

	session := testSession()
	a := NewSigner(session, rand.New(rand.NewSource(1)))
	b := NewSigner(session, rand.New(rand.NewSource(2)))
	params := NewParams().Set("receiver", "bc1q").Set("feeRate", uint64(7))

	sign := a.Sign("inscribe-v5/order/create", params)
	require.Len(t, sign, 32)
	require.Equal(t, strings.ToLower(sign), sign)
	for i := 0; i < 5; i++ {
		require.Equal(t, sign, a.Sign("inscribe-v5/order/create", params))
		require.Equal(t, sign, b.Sign("inscribe-v5/order/create", params))
	}
	require.Equal(t, Digest(a.Canonical("inscribe-v5/order/create", params)), sign)

	reordered := NewParams().Set("feeRate", uint64(7)).Set("receiver", "bc1q")
	require.NotEqual(t, sign, a.Sign("inscribe-v5/order/create", reordered))

	other := NewSigner(NewSession("1727712999", "0123456789abcdef"), nil)
	require.NotEqual(t, sign, other.Sign("inscribe-v5/order/create", params))
}

func TestSigner_Token(t *testing.T) {
	t.Parallel()

	signer := NewSigner(testSession(), rand.New(rand.NewSource(42)))
	sign := signer.Sign("ts2", nil)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token := signer.Token(sign)
		require.Len(t, token, TokenLength)
		require.Equal(t, 25, len(token))
		require.Equal(t, sign[12:14], token[6:8])
		require.Equal(t, "u", token[16:17])
		require.True(t, VerifyToken(token, sign))
		for _, r := range token {
			require.True(t, (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'), "unexpected char %q", r)
		}
		seen[token] = true
	}
	require.Greater(t, len(seen), 1)
}

func TestSigner_TokenSeeded(t *testing.T) {
	t.Parallel()

	session := testSession()
	a := NewSigner(session, rand.New(rand.NewSource(7)))
	b := NewSigner(session, rand.New(rand.NewSource(7)))
	sign := a.Sign("ts2", nil)
	require.Equal(t, a.Token(sign), b.Token(sign))
}

func TestVerifyToken(t *testing.T) {
	t.Parallel()

	signer := NewSigner(testSession(), rand.New(rand.NewSource(3)))
	sign := signer.Sign("ts2", nil)
	token := signer.Token(sign)

	tampered := []byte(token)
	if tampered[6] == 'a' {
		tampered[6] = 'b'
	} else {
		tampered[6] = 'a'
	}

	noMarker := []byte(token)
	noMarker[16] = 'x'

	tests := []struct {
		name  string
		token string
		ok    bool
	}{
		{"valid", token, true},
		{"short", token[:24], false},
		{"long", token + "a", false},
		{"wrong slice", string(tampered), false},
		{"missing marker", string(noMarker), false},
		{"uppercase", strings.ToUpper(token), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.ok, VerifyToken(tt.token, sign))
		})
	}
}

func TestCryptoRand(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		v := CryptoRand.Intn(36)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 36)
	}
}
