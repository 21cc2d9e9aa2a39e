package wework

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/oauth2"
)

// PKCECodes holds a PKCE verifier and its S256 challenge.
type PKCECodes struct {
	// CodeVerifier is sent with the token exchange.
	CodeVerifier string
	// CodeChallenge is sent with the authorize and login requests.
	CodeChallenge string
}

// GeneratePKCECodes generates a fresh PKCE code verifier and challenge pair
// following RFC 7636. A nil random source means crypto/rand.
//
// Returns:
//   - *PKCECodes: A struct containing the code verifier and challenge
//   - error: An error if reading randomness fails, nil otherwise
func GeneratePKCECodes(random io.Reader) (*PKCECodes, error) {
	codeVerifier, err := GenerateCodeVerifier(random)
	if err != nil {
		return nil, fmt.Errorf("failed to generate code verifier: %w", err)
	}
	return &PKCECodes{
		CodeVerifier:  codeVerifier,
		CodeChallenge: DeriveCodeChallenge(codeVerifier),
	}, nil
}

// GenerateCodeVerifier reads 32 bytes from random and encodes them as
// unpadded base64url, yielding a 43 character verifier.
func GenerateCodeVerifier(random io.Reader) (string, error) {
	buf, err := readRandom(random, randomBytesLength)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// DeriveCodeChallenge returns base64url(SHA-256(verifier)) without padding.
func DeriveCodeChallenge(verifier string) string {
	return oauth2.S256ChallengeFromVerifier(verifier)
}

// generateNonce returns 32 random bytes in standard base64, the shape the
// members web app sends as the authorize nonce.
func generateNonce(random io.Reader) (string, error) {
	buf, err := readRandom(random, randomBytesLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

func readRandom(random io.Reader, n int) ([]byte, error) {
	if random == nil {
		random = rand.Reader
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(random, buf); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return buf, nil
}
