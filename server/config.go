// Package server implements a small HTTP service around the formulon
// library: compile and evaluate expressions over the network, keep
// short-lived handles to compiled ASTs for cheap re-evaluation, and audit
// every call to a persistence layer.
//
// It is a host of the library in the sense of spec.md §1 ("the host program
// invoking the library" is out of scope for the library itself): it performs
// no arithmetic of its own and drives Compile/Eval/Print exclusively.
package server

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/dekarrin/formulon"
	"github.com/dekarrin/formulon/server/dao"
	"github.com/dekarrin/formulon/server/dao/sqlite"
)

// Config holds the settings needed to start a Server.
type Config struct {
	// ListenAddress is the address the HTTP server binds, e.g.
	// "localhost:8080" or ":8080".
	ListenAddress string

	// APIKey is the plaintext operator API key presented to POST /v1/auth
	// to obtain a bearer token. It is hashed with bcrypt at startup; the
	// plaintext is never retained beyond New.
	APIKey string

	// TokenSecret signs issued JWTs. If empty, New generates a random
	// one; tokens issued by one run of the server are then invalid for any
	// other run.
	TokenSecret []byte

	// DataDir, if non-empty, is a directory holding (or to hold) a sqlite
	// database file backing the audit log. If empty, the audit log is kept
	// in memory only and discarded on shutdown.
	DataDir string

	// HandleTTL bounds how long a compiled handle from POST /v1/compile may
	// be re-evaluated before it is evicted and freed. Zero means no expiry.
	HandleTTL time.Duration

	// NaturalLog makes the "log" builtin resolve to the natural logarithm
	// instead of base-10 for every expression this server compiles, same
	// as cmd/formulon-repl's -n/--natural-log flag.
	NaturalLog bool

	// LeftAssocExponent makes "**" left-associative instead of the default
	// right-associative behavior for every expression this server
	// compiles, same as cmd/formulon-repl's -a/--left-assoc flag.
	LeftAssocExponent bool
}

// compileOptions returns the formulon.Options this Config selects, to be
// applied uniformly to every expression the server compiles or evaluates.
func (c Config) compileOptions() []formulon.Option {
	var opts []formulon.Option
	if c.NaturalLog {
		opts = append(opts, formulon.WithNaturalLog())
	}
	if c.LeftAssocExponent {
		opts = append(opts, formulon.WithLeftAssocExponent())
	}
	return opts
}

// connectStore opens the configured persistence layer.
func (c Config) connectStore() (dao.Store, error) {
	if c.DataDir == "" {
		return dao.NewInMemoryStore(), nil
	}
	st, err := sqlite.NewDatastore(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store in %q: %w", c.DataDir, err)
	}
	return st, nil
}

// randomSecret returns a fresh 32-byte signing secret, used when no
// TokenSecret is configured.
func randomSecret() ([]byte, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate random token secret: %w", err)
	}
	return secret, nil
}
