package main

import (
	"bytes"
	"flag"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func runMain(t *testing.T, args []string) (int, string, string) {
	t.Helper()
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = append([]string{"wazevo-emit"}, args...)

	var exitCode int
	stdOut := &bytes.Buffer{}
	stdErr := &bytes.Buffer{}
	var exited bool
	func() {
		defer func() {
			if r := recover(); r != nil {
				exited = true
			}
		}()
		flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
		doMain(stdOut, stdErr, func(code int) { exitCode = code })
	}()
	require.False(t, exited)
	return exitCode, stdOut.String(), stdErr.String()
}

func TestVersion(t *testing.T) {
	code, stdOut, _ := runMain(t, []string{"version"})
	require.Equal(t, 0, code)
	require.Equal(t, version+"\n", stdOut)
}

func TestEmit_LocalGetIdentity(t *testing.T) {
	// local.get 0; end, over a single i32 param/result.
	code, stdOut, stdErr := runMain(t, []string{"emit", "-params", "i32", "-results", "i32", "-body", "20000b"})
	require.Equal(t, 0, code, stdErr)
	require.NotEmpty(t, stdOut)
	require.True(t, strings.Contains(stdOut, "blk0"))
}

func TestEmit_MissingBody(t *testing.T) {
	code, _, stdErr := runMain(t, []string{"emit"})
	require.Equal(t, 1, code)
	require.Contains(t, stdErr, "missing -body")
}
