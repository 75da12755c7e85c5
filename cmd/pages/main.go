// Package main provides the CLI entrypoint for pages.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/pages/internal/analysis"
	"github.com/verte-zerg/pages/internal/config"
	"github.com/verte-zerg/pages/internal/feedback"
	"github.com/verte-zerg/pages/internal/historyui"
	"github.com/verte-zerg/pages/internal/journal"
	"github.com/verte-zerg/pages/internal/log"
	"github.com/verte-zerg/pages/internal/model"
	"github.com/verte-zerg/pages/internal/store"
	"github.com/verte-zerg/pages/internal/tui"
)

const (
	defaultWindow = 7
	defaultFormat = "text"
)

var (
	rootDBPath   string
	rootVerbose  bool
	rootProvider string
	rootModel    string

	editorPanel bool
	editorGoal  int

	analyzeFormat string

	feedbackJSON bool

	statsSince  string
	statsLast   int
	statsWindow int
	statsPlain  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pages",
		Short:         "Morning pages in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runEditorCmd,
	}

	rootCmd.PersistentFlags().StringVar(&rootDBPath, "db", "", "database path (default: $XDG_DATA_HOME/pages/pages.db)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "print diagnostics to stderr")
	rootCmd.PersistentFlags().StringVar(&rootProvider, "provider", "", "feedback provider: anthropic, openai, ollama or none")
	rootCmd.PersistentFlags().StringVar(&rootModel, "model", "", "feedback model name")

	rootCmd.Flags().BoolVar(&editorPanel, "panel", true, "show the analysis panel on start")
	rootCmd.Flags().IntVar(&editorGoal, "goal", analysis.WordGoal, "words that complete a day")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newFeedbackCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

type session struct {
	fileCfg config.FileConfig
	store   *store.Store
	journal *journal.Journal
	logger  *log.Logger
}

func openSession(cmd *cobra.Command) (*session, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "goal", &editorGoal, fileCfg.Editor.Goal)
	if editorGoal <= 0 {
		return nil, fmt.Errorf("--goal must be > 0")
	}

	logger := log.New(rootVerbose, os.Stderr)
	dbPath := rootDBPath
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	logger.Printf("db: %s", dbPath)
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	j := journal.New(st, journal.WithGoal(editorGoal), journal.WithLogger(logger))
	return &session{fileCfg: fileCfg, store: st, journal: j, logger: logger}, nil
}

func (s *session) Close() {
	if cerr := s.store.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func runEditorCmd(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	applyBoolConfig(cmd, "panel", &editorPanel, s.fileCfg.Editor.Panel)

	fbCfg, err := resolveFeedbackConfig(cmd, s.fileCfg.Feedback)
	if err != nil {
		return err
	}
	provider, err := feedback.NewProvider(fbCfg)
	if err != nil {
		s.logger.Printf("feedback disabled: %v", err)
		provider = nil
	}
	svc := feedback.NewService(provider, fbCfg, s.logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	m, err := tui.NewModel(ctx, s.journal, svc, tui.Options{
		ShowPanel: editorPanel,
		Timeout:   fbCfg.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to load today's pages: %w", err)
	}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Print the heuristic analysis of a text",
		Long:  "Analyze a file, '-' or piped stdin, or today's draft when neither is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAnalyzeCmd,
	}
	cmd.Flags().StringVarP(&analyzeFormat, "format", "f", defaultFormat, "output format: text, json or yaml")
	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	if err := validateFormat(analyzeFormat); err != nil {
		return err
	}
	text, err := readText(cmd, args)
	if err != nil {
		return err
	}
	return writeAnalysis(cmd.OutOrStdout(), analyzeFormat, analysis.Analyze(text))
}

func newFeedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback [file]",
		Short: "Ask the writing coach for feedback",
		Long:  "Send a file, '-' or piped stdin, or today's draft to the configured LLM provider.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runFeedbackCmd,
	}
	cmd.Flags().BoolVar(&feedbackJSON, "json", false, "print the raw feedback as JSON")
	return cmd
}

func runFeedbackCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fbCfg, err := resolveFeedbackConfig(cmd, fileCfg.Feedback)
	if err != nil {
		return err
	}
	provider, err := feedback.NewProvider(fbCfg)
	if err != nil {
		return fmt.Errorf("failed to configure feedback: %w", err)
	}
	logger := log.New(rootVerbose, os.Stderr)
	svc := feedback.NewService(provider, fbCfg, logger)
	if !svc.Enabled() {
		return fmt.Errorf("%w: set [feedback] provider in %s", feedback.ErrDisabled, config.DefaultConfigPath())
	}

	text, err := readText(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if !feedbackJSON {
		logErrf("Asking %s...\n", svc.ProviderName())
	}
	fb, err := svc.Analyze(ctx, text)
	if err != nil {
		return err
	}
	if feedbackJSON {
		return writeJSON(cmd.OutOrStdout(), fb)
	}
	return writeFeedbackText(cmd.OutOrStdout(), fb)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show streak and history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N entries")
	cmd.Flags().IntVar(&statsWindow, "window", defaultWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfig(statsSince, statsLast, statsWindow)
	if err != nil {
		return err
	}
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if statsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return writeStatsPlain(commandContext(cmd), cmd.OutOrStdout(), s.journal, cfg)
	}
	program := tea.NewProgram(historyui.NewModel(s.journal, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func statsConfig(since string, last, window int) (model.StatsConfig, error) {
	if last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if window <= 0 {
		return model.StatsConfig{}, fmt.Errorf("--window must be > 0")
	}
	cfg := model.StatsConfig{Last: last, Window: window}
	if since != "" {
		parsed, err := journal.ParseDay(since)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	return cfg, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

// readText picks the input for analyze and feedback: a file argument, "-"
// or piped stdin, then today's draft.
func readText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return string(data), nil
	}
	if len(args) == 1 || !term.IsTerminal(int(os.Stdin.Fd())) {
		return readAll(cmd.InOrStdin())
	}

	s, err := openSession(cmd)
	if err != nil {
		return "", err
	}
	defer s.Close()
	text, err := s.journal.LoadDraft(commandContext(cmd))
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("nothing written today; pass a file or pipe text in")
	}
	return text, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func resolveFeedbackConfig(cmd *cobra.Command, fileCfg config.FeedbackConfig) (feedback.Config, error) {
	cfg := feedback.DefaultConfig()
	provider := rootProvider
	modelName := rootModel
	applyStringConfig(cmd, "provider", &provider, fileCfg.Provider)
	applyStringConfig(cmd, "model", &modelName, fileCfg.Model)

	env := config.LoadEnv(orDefault(provider, cfg.Provider))
	if env.Provider != "" && !flagChanged(cmd, "provider") {
		provider = env.Provider
	}
	if env.Model != "" && !flagChanged(cmd, "model") {
		modelName = env.Model
	}

	if provider != "" {
		cfg.Provider = strings.ToLower(strings.TrimSpace(provider))
	}
	switch {
	case modelName != "":
		cfg.Model = modelName
	case cfg.Provider != "anthropic" && cfg.Provider != "claude":
		cfg.Model = ""
	}
	cfg.APIKey = env.APIKey
	if fileCfg.BaseURL != nil {
		cfg.BaseURL = *fileCfg.BaseURL
	}
	if fileCfg.MaxTokens != nil {
		if *fileCfg.MaxTokens <= 0 {
			return feedback.Config{}, fmt.Errorf("feedback max-tokens must be > 0")
		}
		cfg.MaxTokens = *fileCfg.MaxTokens
	}
	if fileCfg.RateSeconds != nil {
		if *fileCfg.RateSeconds < 0 {
			return feedback.Config{}, fmt.Errorf("feedback rate-seconds must be >= 0")
		}
		cfg.RateSeconds = *fileCfg.RateSeconds
	}
	timeout, err := fileCfg.TimeoutDuration()
	if err != nil {
		return feedback.Config{}, err
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	return cfg, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// flagChanged also sees persistent flags before cobra merges them into
// the command's flag set.
func flagChanged(cmd *cobra.Command, name string) bool {
	return cmd.Flags().Changed(name) || cmd.PersistentFlags().Changed(name)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if flagChanged(cmd, name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if flagChanged(cmd, name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if flagChanged(cmd, name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pages configuration
# Uncomment a value to enable it. CLI flags override config values.
# API keys are read from PAGES_API_KEY, ANTHROPIC_API_KEY or OPENAI_API_KEY.

[editor]
# panel = true            # Show the analysis panel on start
# goal = %d              # Words that complete a day

[feedback]
# provider = "anthropic"  # anthropic, openai, ollama or none
# model = %q
# base-url = ""           # Override the provider endpoint
# timeout = %q             # Per-request timeout
# max-tokens = %d        # Reply length cap
# rate-seconds = %d        # Minimum gap between requests
`,
		analysis.WordGoal,
		feedback.DefaultAnthropicModel,
		feedback.DefaultTimeout.String(),
		feedback.DefaultMaxTokens,
		feedback.DefaultRateSeconds,
	)
}

func validateFormat(format string) error {
	switch format {
	case "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("--format must be text, json or yaml (got %q)", format)
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
