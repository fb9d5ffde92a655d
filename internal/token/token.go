// Package token derives and validates mailbox access tokens.
//
// The upstream service identifies a mailbox by the MD5 digest of its
// address. The digest is the sole credential for reading and deleting
// that mailbox's messages, so it must match what the service computes;
// no other hash function is interchangeable here.
package token

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
)

var hex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// Derive returns the lookup token for a mailbox address: the lowercase
// hex MD5 digest of the address. Deterministic and one-way; the token
// is never regenerated independently of the address.
func Derive(address string) string {
	sum := md5.Sum([]byte(address))
	return hex.EncodeToString(sum[:])
}

// Valid reports whether s has the shape of a token or upstream message
// ID: exactly 32 lowercase hex characters. Identifiers failing this
// check are rejected locally, before any network call.
func Valid(s string) bool {
	return hex32.MatchString(s)
}
