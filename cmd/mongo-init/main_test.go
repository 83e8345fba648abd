//go:build unit

package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Capi12YT/demo-avoris/mongoinit/config"
	"github.com/Capi12YT/demo-avoris/mongoinit/mongo"
	"github.com/Capi12YT/demo-avoris/mongoinit/provision"
	libZap "github.com/Capi12YT/demo-avoris/mongoinit/zap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_RejectsPositionalArgs(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd()
	cmd.SetArgs([]string{"extra"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestRootCmd_Version(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--version"})
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "devel")
}

func TestRootCmd_URIFlag(t *testing.T) {
	t.Parallel()

	flag := newRootCmd().Flags().Lookup("uri")
	require.NotNil(t, flag)
	assert.Empty(t, flag.DefValue)
}

func TestRun_InvalidEnvironment(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), config.Config{
		EnvName: "moon",
		Timeout: time.Second,
	})
	assert.ErrorIs(t, err, libZap.ErrUnknownEnvironment)
}

func TestRun_InvalidLevel(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), config.Config{
		EnvName:  "local",
		LogLevel: "chatty",
		Timeout:  time.Second,
	})
	assert.ErrorContains(t, err, "unknown log level")
}

func runConfig(uri string) config.Config {
	plan := provision.DefaultPlan()

	return config.Config{
		EnvName:                "local",
		LogLevel:               "error",
		URI:                    uri,
		Database:               plan.Database,
		Username:               plan.Username,
		Password:               plan.Password,
		Role:                   plan.Role,
		Collection:             plan.Collection,
		IndexField:             plan.IndexField,
		Timeout:                3 * time.Second,
		ServerSelectionTimeout: 200 * time.Millisecond,
	}
}

func TestRun_MalformedURIFailsToConnect(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), runConfig("mongodb://localhost:notaport"))
	require.Error(t, err)
	assert.ErrorIs(t, err, mongo.ErrConnect)
}

func TestRun_UnreachableServerFailsPing(t *testing.T) {
	t.Parallel()

	// The driver connects lazily, so an unreachable server surfaces on the first ping.
	err := run(context.Background(), runConfig("mongodb://127.0.0.1:1/?connectTimeoutMS=200"))
	require.Error(t, err)
	assert.ErrorIs(t, err, mongo.ErrPing)
	assert.NotErrorIs(t, err, provision.ErrStepFailed)
}
