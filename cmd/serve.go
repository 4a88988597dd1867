package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/ringchart/internal/config"
	"github.com/theirongolddev/ringchart/internal/daemon"

	"github.com/spf13/cobra"
)

type serverRuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	StorePath string    `json:"store_path,omitempty"`
}

var (
	flagServeAddr         string
	flagServeInterval     time.Duration
	flagServeNoStore      bool
	flagServeDetach       bool
	flagServePIDFile      string
	flagServeLogFile      string
	flagServeEventsBuffer int
	flagServeChild        bool
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"daemon"},
	Short:   "Serve chart layouts over HTTP with an SSE event stream",
	RunE:    runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server process and API status",
	RunE:  runServeStatus,
}

var serveStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running server",
	RunE:  runServeStop,
}

func init() {
	defaultPID := filepath.Join(config.Dir(), "ringchartd.pid")
	defaultLog := filepath.Join(config.Dir(), "ringchartd.log")

	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	serveCmd.PersistentFlags().StringVar(&flagServePIDFile, "pid-file", defaultPID, "PID file path")
	serveCmd.PersistentFlags().StringVar(&flagServeLogFile, "log-file", defaultLog, "Log file path for detached mode")

	serveCmd.Flags().DurationVar(&flagServeInterval, "interval", 10*time.Second, "Store polling interval")
	serveCmd.Flags().IntVar(&flagServeEventsBuffer, "events-buffer", 200, "Max in-memory events retained")
	serveCmd.Flags().BoolVar(&flagServeNoStore, "no-store", false, "Serve ad-hoc layouts only, without the dataset store")
	serveCmd.Flags().BoolVar(&flagServeDetach, "detach", false, "Run the server as a background process")
	serveCmd.Flags().BoolVar(&flagServeChild, "child", false, "Internal: mark detached child process")
	_ = serveCmd.Flags().MarkHidden("child")

	serveCmd.AddCommand(serveStatusCmd)
	serveCmd.AddCommand(serveStopCmd)
	rootCmd.AddCommand(serveCmd)
}

func serveAddr(cfg config.Config) string {
	if flagServeAddr != "" {
		return flagServeAddr
	}
	if cfg.Server.Addr != "" {
		return cfg.Server.Addr
	}
	return "127.0.0.1:8787"
}

func runServe(cmd *cobra.Command, _ []string) error {
	if flagServeDetach && flagServeChild {
		return errors.New("invalid server launch mode")
	}

	cfg := loadConfig()
	if flagServeDetach {
		return startServerDetached(serveAddr(cfg))
	}
	return runServerForeground(cmd, cfg)
}

func startServerDetached(addr string) error {
	if err := pidFile(flagServePIDFile).ensureFree(); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := filterDetachArg(os.Args[1:])
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(flagServePIDFile), 0o750); err != nil {
		return fmt.Errorf("create server directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(flagServeLogFile), 0o750); err != nil {
		return fmt.Errorf("create server log directory: %w", err)
	}

	//nolint:gosec // log path is configured by the local user
	logf, err := os.OpenFile(flagServeLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open server log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	child.Stdout = logf
	child.Stderr = logf
	child.Stdin = nil
	child.Env = os.Environ()

	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached server: %w", err)
	}

	fmt.Printf("  Started server (pid %d)\n", child.Process.Pid)
	fmt.Printf("  PID file: %s\n", flagServePIDFile)
	fmt.Printf("  API: http://%s/v1/status\n", addr)
	fmt.Printf("  Log: %s\n", flagServeLogFile)
	return nil
}

func runServerForeground(cmd *cobra.Command, cfg config.Config) error {
	pf := pidFile(flagServePIDFile)
	if err := pf.ensureFree(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(flagServePIDFile), 0o750); err != nil {
		return fmt.Errorf("create server directory: %w", err)
	}

	addr := serveAddr(cfg)
	cc := chartConfig(cmd, cfg)
	if err := validateChart(cc); err != nil {
		return err
	}

	svcCfg := daemon.Config{
		Addr:         addr,
		Chart:        cc,
		Interval:     flagServeInterval,
		EventsBuffer: flagServeEventsBuffer,
	}

	state := serverRuntimeState{
		Addr:      addr,
		StartedAt: time.Now(),
	}
	if !flagServeNoStore {
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		svcCfg.Store = s
		state.StorePath = storePath(cfg)
	}

	state.PID = os.Getpid()
	if err := pf.write(state); err != nil {
		return err
	}
	defer pf.remove()

	svc := daemon.New(svcCfg)

	fmt.Printf("  ringchart server listening on http://%s\n", addr)
	if state.StorePath != "" {
		fmt.Printf("  Polling %s every %s\n", state.StorePath, flagServeInterval)
	} else {
		fmt.Printf("  Dataset store disabled\n")
	}
	fmt.Printf("  Stop with: ringchart serve stop --pid-file %s\n", flagServePIDFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServeStatus(_ *cobra.Command, _ []string) error {
	pf := pidFile(flagServePIDFile)
	pid, err := pf.pid()
	if err != nil {
		fmt.Printf("  Server: not running (pid file not found)\n")
		return nil
	}

	if !processAlive(pid) {
		fmt.Printf("  Server: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	addr := serveAddr(loadConfig())
	if st, err := pf.state(); err == nil && st.Addr != "" {
		addr = st.Addr
	}

	fmt.Printf("  Server PID: %d\n", pid)
	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	if st.LastPollAt.IsZero() {
		fmt.Printf("  Last poll: pending\n")
	} else {
		fmt.Printf("  Last poll: %s\n", st.LastPollAt.Local().Format(time.RFC3339))
	}
	fmt.Printf("  Poll count: %d\n", st.PollCount)
	fmt.Printf("  Requests: %d (%d layouts)\n", st.Requests, st.Layouts)
	if st.StoreEnabled {
		fmt.Printf("  Datasets: %d (%d categories)\n", st.Summary.Datasets, st.Summary.Categories)
	}
	fmt.Printf("  Subscribers: %d\n", st.SubscriberCount)
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func runServeStop(_ *cobra.Command, _ []string) error {
	pf := pidFile(flagServePIDFile)
	pid, err := pf.pid()
	if err != nil {
		return errors.New("server is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find server process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal server process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			pf.remove()
			fmt.Printf("  Stopped server (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}

	return fmt.Errorf("server (pid %d) did not exit in time", pid)
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

// pidFile tracks a running server: the PID on disk plus a JSON state file
// next to it carrying the listen address.
type pidFile string

func (p pidFile) statePath() string {
	return string(p) + ".json"
}

func (p pidFile) write(st serverRuntimeState) error {
	if err := os.WriteFile(string(p), []byte(strconv.Itoa(st.PID)+"\n"), 0o600); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.statePath(), append(data, '\n'), 0o600)
}

func (p pidFile) pid() (int, error) {
	//nolint:gosec // pid path is configured by the local user
	data, err := os.ReadFile(string(p))
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", p)
	}
	return pid, nil
}

func (p pidFile) state() (serverRuntimeState, error) {
	var st serverRuntimeState
	//nolint:gosec // state path is configured by the local user
	data, err := os.ReadFile(p.statePath())
	if err != nil {
		return st, err
	}
	err = json.Unmarshal(data, &st)
	return st, err
}

func (p pidFile) remove() {
	_ = os.Remove(string(p))
	_ = os.Remove(p.statePath())
}

// ensureFree clears a stale pid file and fails when the recorded process is
// still alive.
func (p pidFile) ensureFree() error {
	pid, err := p.pid()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if processAlive(pid) {
		return fmt.Errorf("server already running (pid %d)", pid)
	}
	p.remove()
	return nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
