package main

import (
	"io"
	"net"
	"os"
	"time"

	"cursorkeep/logger"

	"github.com/pkg/errors"
)

// Client relays the editor's stdio to the daemon socket.
type Client struct {
	socketPath string
	configFile string
}

func NewClient(configFile string) *Client {
	return &Client{
		socketPath: getSocketPath(),
		configFile: configFile,
	}
}

// Connect pipes stdin and stdout through the daemon socket until either
// side closes.
func (c *Client) Connect() error {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return errors.Wrapf(err, "dial %s", c.socketPath)
	}
	defer conn.Close()

	go func() {
		_, _ = io.Copy(conn, os.Stdin)
		conn.Close()
	}()

	// Reading fails with a closed-connection error once stdin has ended,
	// which is the normal way out.
	_, _ = io.Copy(os.Stdout, conn)
	return nil
}

func (c *Client) EnsureDaemonRunning() error {
	if running, pid := isDaemonRunning(); running {
		logger.Debug("reusing daemon with PID %d", pid)
		return nil
	}
	return c.startDaemon()
}

// daemonArgs is the argv of the spawned daemon. The environment is
// inherited, so CURSORKEEP_* settings carry over on their own.
func (c *Client) daemonArgs() []string {
	args := []string{os.Args[0], "--daemon"}
	if c.configFile != "" {
		args = append(args, "--config", c.configFile)
	}
	return args
}

func (c *Client) startDaemon() error {
	logger.Debug("starting daemon...")

	_, err := os.StartProcess(os.Args[0], c.daemonArgs(), &os.ProcAttr{
		Env: os.Environ(),
		Files: []*os.File{
			nil, // stdin
			nil, // stdout
			nil, // stderr
		},
	})
	if err != nil {
		return errors.Wrap(err, "spawn daemon")
	}

	return c.waitForDaemon()
}

const daemonStartTimeout = 5 * time.Second

// waitForDaemon polls the PID file until the spawned daemon reports in.
func (c *Client) waitForDaemon() error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(daemonStartTimeout)

	for {
		select {
		case <-deadline:
			return errors.Errorf("daemon did not start within %s", daemonStartTimeout)
		case <-ticker.C:
			if running, pid := isDaemonRunning(); running {
				logger.Debug("daemon up with PID %d", pid)
				return nil
			}
		}
	}
}
