package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"syscall"

	"cursorkeep/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

var (
	cfgFile string
	cfg     Config
)

// v holds flag bindings for the life of the process, so a config reload
// sees the same flags as startup.
var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "cursorkeep",
	Short: "Format the line under the cursor without losing the cursor",
	Long: `cursorkeep formats text as it is typed (digit grouping, whitespace
normalisation, card numbers) and keeps the cursor where the user expects it.

Without arguments it relays stdin/stdout to the formatting daemon, starting
it if needed; Neovim talks msgpack-rpc over that pipe.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	RunE:              runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/cursorkeep/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringP("strategy", "s", "", "cursor strategy: arithmetic, marker, buffer, retrospective, layer, diff")
	rootCmd.PersistentFlags().StringP("op", "o", "", "operation: commatize, trimify, credit_card")
	rootCmd.PersistentFlags().String("metric", "", "retrospective metric: balance_frequencies, split_levenshtein")
	rootCmd.PersistentFlags().Bool("prefer-right", false, "layer strategy: resolve final ties to the right")
	rootCmd.Flags().Bool("daemon", false, "run the formatting daemon")
	rootCmd.Flags().String("metrics-addr", "", "daemon: serve Prometheus metrics on this address")

	// Bind flags to viper
	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("strategy", rootCmd.PersistentFlags().Lookup("strategy"))
	_ = v.BindPFlag("operation", rootCmd.PersistentFlags().Lookup("op"))
	_ = v.BindPFlag("metric", rootCmd.PersistentFlags().Lookup("metric"))
	_ = v.BindPFlag("prefer_right", rootCmd.PersistentFlags().Lookup("prefer-right"))
	_ = v.BindPFlag("metrics_addr", rootCmd.Flags().Lookup("metrics-addr"))

	rootCmd.AddCommand(newFormatCmd())
}

func initConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = loadConfig(v, cfgFile)
	return err
}

func runRoot(cmd *cobra.Command, args []string) error {
	if daemon, _ := cmd.Flags().GetBool("daemon"); daemon {
		return runDaemon(cfg)
	}
	return runClient()
}

func stateDir() string {
	execPath, err := os.Executable()
	if err != nil {
		log.Fatalf("error getting executable path: %v", err)
	}
	return filepath.Dir(execPath)
}

func getSocketPath() string { return filepath.Join(stateDir(), "cursorkeep.sock") }

func getPidPath() string { return filepath.Join(stateDir(), "cursorkeep.pid") }

func getLogPath() string { return filepath.Join(stateDir(), "cursorkeep.log") }

func isDaemonRunning() (bool, int) {
	data, err := os.ReadFile(getPidPath())
	if err != nil {
		return false, 0
	}

	pid, err := strconv.Atoi(string(data))
	if err != nil {
		return false, 0
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false, 0
	}

	// On Unix, Signal(0) checks if process exists
	err = process.Signal(syscall.Signal(0))
	return err == nil, pid
}

// setupLogger sends both the leveled logger and the standard log package
// to the log file. Caller must Close the returned logger.
func setupLogger(logLevel string) (*logger.RotatingLogger, error) {
	l, err := logger.Open(getLogPath(), logger.ParseLogLevel(logLevel))
	if err != nil {
		return nil, err
	}
	log.SetOutput(l)
	return l, nil
}

func runDaemon(config Config) error {
	l, err := setupLogger(config.LogLevel)
	if err != nil {
		return err
	}
	defer l.Close()
	log.Printf("config: %+v", config)

	daemon, err := NewDaemon(config)
	if err != nil {
		return fmt.Errorf("error creating daemon: %w", err)
	}
	if path := v.ConfigFileUsed(); path != "" {
		daemon.WatchConfig(path, func() (Config, error) { return loadConfig(v, cfgFile) })
	}
	return daemon.Start()
}

func runClient() error {
	client := NewClient(cfgFile)

	if err := client.EnsureDaemonRunning(); err != nil {
		return fmt.Errorf("error ensuring daemon is running: %w", err)
	}
	if err := client.Connect(); err != nil {
		return fmt.Errorf("error connecting to daemon: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
