package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainStatement = "sqlfuse/statement/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// StatementFingerprint computes a content-addressed identity for compiled SQL
// and its ordered parameter bindings. Each element of params is a scalar or a
// map[string]any describing one binding. Two compilations of the same tree for
// the same dialect always produce the same fingerprint.
func StatementFingerprint(dialect, sql string, params []any) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"dialect": dialect,
		"sql":     sql,
		"params":  params,
	})
	if err != nil {
		return "", fmt.Errorf("StatementFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainStatement, canonical), nil
}
