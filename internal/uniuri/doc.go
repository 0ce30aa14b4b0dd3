// Package uniuri generates random tokens from crypto/rand over a fixed alphabet.
// Tokens are free of modulo bias, URL safe and used as session identifiers.
package uniuri
