package unisat

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strings"
)

const (
	tokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	tokenMarker   = "u"

	// the two signature characters embedded in every cf-token
	tokenSignStart = 12
	tokenSignEnd   = 14

	tokenHeadLen   = 6
	tokenMiddleLen = 8
	tokenTailLen   = 8

	// TokenLength is the fixed length of a cf-token.
	TokenLength = tokenHeadLen + (tokenSignEnd - tokenSignStart) + tokenMiddleLen + len(tokenMarker) + tokenTailLen
)

// RandSource supplies the random characters of a cf-token. *math/rand.Rand
// satisfies it, which is what tests use.
type RandSource interface {
	Intn(n int) int
}

type cryptoSource struct{}

func (cryptoSource) Intn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}
	return int(v.Int64())
}

// CryptoRand is the default RandSource, backed by crypto/rand.
var CryptoRand RandSource = cryptoSource{}

// Signer computes X-Sign digests and cf-tokens against a fixed session.
type Signer struct {
	session *Session
	rand    RandSource
}

func NewSigner(session *Session, rnd RandSource) *Signer {
	if rnd == nil {
		rnd = CryptoRand
	}
	return &Signer{
		session: session,
		rand:    rnd,
	}
}

// Canonical returns the exact string that gets hashed for endpoint.
func (s *Signer) Canonical(endpoint string, params *Params) string {
	return CanonicalString(endpoint, params.Len() > 0, params.Encode(), s.session.Timestamp, s.session.SignatureMagic)
}

func (s *Signer) Sign(endpoint string, params *Params) string {
	return Digest(s.Canonical(endpoint, params))
}

// Token builds a cf-token around sign.
func (s *Signer) Token(sign string) string {
	var sb strings.Builder
	sb.Grow(TokenLength)
	sb.WriteString(s.randomChars(tokenHeadLen))
	sb.WriteString(signSlice(sign))
	sb.WriteString(s.randomChars(tokenMiddleLen))
	sb.WriteString(tokenMarker)
	sb.WriteString(s.randomChars(tokenTailLen))
	return sb.String()
}

func (s *Signer) randomChars(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = tokenAlphabet[s.rand.Intn(len(tokenAlphabet))]
	}
	return string(out)
}

// CanonicalString lays out the signed string. encodedQuery is only used
// when hasQuery is set; otherwise the query section is omitted entirely.
func CanonicalString(endpoint string, hasQuery bool, encodedQuery, ts, magic string) string {
	var sb strings.Builder
	sb.WriteByte('/')
	sb.WriteString(strings.TrimPrefix(endpoint, "/"))
	if hasQuery {
		sb.WriteByte('?')
		sb.WriteString(encodedQuery)
	}
	sb.WriteString("\n\n")
	sb.WriteString(ts)
	sb.WriteString("@#?.#@")
	sb.WriteString(magic)
	return sb.String()
}

func Digest(canonical string) string {
	sum := md5.Sum([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// VerifyToken reports whether token is structurally valid and carries the
// slice of sign that Token embeds.
func VerifyToken(token, sign string) bool {
	if len(token) != TokenLength || len(sign) < tokenSignEnd {
		return false
	}
	for i := 0; i < len(token); i++ {
		if !strings.ContainsRune(tokenAlphabet, rune(token[i])) {
			return false
		}
	}

	sliceAt := tokenHeadLen
	markerAt := sliceAt + (tokenSignEnd - tokenSignStart) + tokenMiddleLen
	return token[sliceAt:sliceAt+tokenSignEnd-tokenSignStart] == signSlice(sign) &&
		token[markerAt:markerAt+len(tokenMarker)] == tokenMarker
}

func signSlice(sign string) string {
	if len(sign) < tokenSignEnd {
		return sign
	}
	return sign[tokenSignStart:tokenSignEnd]
}
