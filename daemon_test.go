package main

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDaemon(t *testing.T) {
	config := defaultConfig()
	d, err := NewDaemon(config)
	require.NoError(t, err)
	assert.Nil(t, d.metricsSrv, "metrics disabled without an address")
	assert.NotNil(t, d.recorder)

	config.MetricsAddr = "127.0.0.1:0"
	d, err = NewDaemon(config)
	require.NoError(t, err)
	require.NotNil(t, d.metricsSrv)
	assert.Equal(t, "127.0.0.1:0", d.metricsSrv.Addr)
}

func TestNewDaemon_InvalidStrategy(t *testing.T) {
	config := defaultConfig()
	config.Strategy = "marker"
	config.Operation = "credit_card"

	_, err := NewDaemon(config)
	assert.Error(t, err, "marker does not support card numbers")
}

func TestClient_DaemonArgs(t *testing.T) {
	assert.Equal(t, []string{"--daemon"}, NewClient("").daemonArgs()[1:])
	assert.Equal(t, []string{"--daemon", "--config", "/tmp/c.yaml"}, NewClient("/tmp/c.yaml").daemonArgs()[1:])
}

func TestDaemon_ApplyConfig(t *testing.T) {
	d, err := NewDaemon(defaultConfig())
	require.NoError(t, err)

	next := defaultConfig()
	next.Strategy = "layer"
	next.Operation = "trimify"
	next.LogLevel = "warn"
	next.MetricsAddr = "127.0.0.1:9464"
	require.NoError(t, d.applyConfig(next))
	assert.Equal(t, "layer", d.config.Strategy)
	assert.Equal(t, "trimify", d.config.Operation)
	assert.Empty(t, d.config.MetricsAddr, "listen address needs a restart")

	bad := next
	bad.Strategy = "guess"
	assert.Error(t, d.applyConfig(bad))
	assert.Equal(t, "layer", d.config.Strategy, "failed reload keeps settings")
}

func TestDaemon_ListensBeforePidFile(t *testing.T) {
	d, err := NewDaemon(defaultConfig())
	require.NoError(t, err)
	dir := t.TempDir()
	d.socketPath = filepath.Join(dir, "d.sock")
	d.pidPath = filepath.Join(dir, "d.pid")

	done := make(chan error, 1)
	go func() { done <- d.Start() }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(d.pidPath)
		return err == nil
	}, 5*time.Second, 5*time.Millisecond, "pid file written")

	conn, err := net.Dial("unix", d.socketPath)
	require.NoError(t, err, "socket accepts as soon as the pid file exists")
	conn.Close()

	d.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop")
	}
	assert.NoFileExists(t, d.pidPath, "pid file removed")
	assert.NoFileExists(t, d.socketPath, "socket removed")
}
