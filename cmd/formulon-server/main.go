/*
Formulon-server runs the formulon evaluation service: a small HTTP API for
compiling, evaluating, and inspecting math expressions remotely.

Usage:

	formulon-server [flags]

The flags are:

	-v, --version
		Give the current version of formulon and the server, then exit.

	-l, --listen ADDRESS
		The address to listen on. Defaults to ":8080".

	-k, --api-key KEY
		The plaintext API key operators must present to POST /v1/auth to
		obtain a bearer token. Required.

	-d, --data-dir DIR
		A directory holding (or to hold) the sqlite audit log database. If
		unset, the audit log is kept in memory only.

	-t, --handle-ttl DURATION
		How long a compiled handle from POST /v1/compile may be re-evaluated
		before it is evicted. Zero (the default) means handles never expire
		on their own.

	-n, --natural-log
		Make the "log" builtin resolve to the natural logarithm instead of
		base-10 for every expression this server compiles.

	-a, --left-assoc
		Make "**" left-associative instead of the default right-associative
		behavior for every expression this server compiles.
*/
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/dekarrin/formulon/internal/version"
	"github.com/dekarrin/formulon/server"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue building or starting the server.
	ExitInitError

	// ExitServeError indicates the server exited on its own due to a
	// network error.
	ExitServeError
)

var (
	returnCode  int            = ExitSuccess
	flagVersion *bool          = pflag.BoolP("version", "v", false, "Gives the version info")
	listenAddr  *string        = pflag.StringP("listen", "l", ":8080", "The address to listen on")
	apiKey      *string        = pflag.StringP("api-key", "k", "", "The plaintext operator API key")
	dataDir     *string        = pflag.StringP("data-dir", "d", "", "Directory holding the sqlite audit log; unset keeps it in memory only")
	handleTTL   *time.Duration = pflag.DurationP("handle-ttl", "t", 0, "How long a compiled handle may be re-evaluated before it expires")
	naturalLog  *bool          = pflag.BoolP("natural-log", "n", false, `Make the "log" builtin resolve to the natural logarithm instead of base-10`)
	leftAssoc   *bool          = pflag.BoolP("left-assoc", "a", false, `Make "**" left-associative instead of right-associative`)
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("formulon %s / formulon-server %s\n", version.Current, version.ServerCurrent)
		return
	}

	if *apiKey == "" {
		fmt.Fprintln(os.Stderr, "ERROR: --api-key is required")
		returnCode = ExitInitError
		return
	}

	cfg := server.Config{
		ListenAddress:     *listenAddr,
		APIKey:            *apiKey,
		DataDir:           *dataDir,
		HandleTTL:         *handleTTL,
		NaturalLog:        *naturalLog,
		LeftAssocExponent: *leftAssoc,
	}

	srv, err := server.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer srv.Close()

	fmt.Printf("formulon-server %s listening on %s\n", version.ServerCurrent, *listenAddr)
	if err := srv.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitServeError
		return
	}
}
