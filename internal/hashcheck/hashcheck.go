// Package hashcheck maps a player's textual answer onto a correctness
// verdict for an encounter's target. Pure functions, no state.
package hashcheck

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"strings"

	"hashquest/internal/content"
)

// Digest returns the lowercase hex digest of text under the given
// algorithm. Unknown algorithms yield an empty string.
func Digest(algo content.HashAlgo, text string) string {
	switch algo {
	case content.AlgoMD5:
		sum := md5.Sum([]byte(text))
		return hex.EncodeToString(sum[:])
	case content.AlgoSHA1:
		sum := sha1.Sum([]byte(text))
		return hex.EncodeToString(sum[:])
	case content.AlgoSHA256:
		sum := sha256.Sum256([]byte(text))
		return hex.EncodeToString(sum[:])
	case content.AlgoSHA512:
		sum := sha512.Sum512([]byte(text))
		return hex.EncodeToString(sum[:])
	}
	return ""
}

// CheckHash reports whether the answer's digest matches the target
// hash. The target tolerates surrounding whitespace and mixed case.
func CheckHash(answer, target string, algo content.HashAlgo) bool {
	got := Digest(algo, answer)
	if got == "" {
		return false
	}
	return strings.EqualFold(got, strings.TrimSpace(target))
}

// CheckPlaintext compares answer and target case-insensitively with
// whitespace trimmed on both sides.
func CheckPlaintext(answer, target string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(target))
}

// Check validates an answer against whichever target the encounter
// declares. Encounters without a target accept any answer.
func Check(answer string, e *content.Encounter) bool {
	switch {
	case e.Hash != "":
		return CheckHash(answer, e.Hash, e.Algo)
	case e.Solution != "":
		return CheckPlaintext(answer, e.Solution)
	}
	return true
}
