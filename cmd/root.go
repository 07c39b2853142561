package cmd

import (
	"errors"
	"io/fs"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/lcamplin/tpsh/core/config"
	"github.com/lcamplin/tpsh/core/shell"
	"github.com/lcamplin/tpsh/core/vos"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	cfgPath             string
	debug               bool
	reap                bool
	abortOnSpawnFailure bool
)

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, shell.ShellName)
}

func newLogger() *log.Logger {
	if !debug {
		return log.New(ioutil.Discard, "", 0)
	}
	return log.New(os.Stderr, "["+shell.ShellName+"] ", 0)
}

func configFs() afero.Fs {
	return afero.NewBasePathFs(afero.NewOsFs(), cfgPath)
}

func loadConfig(logger *log.Logger) (*config.Configuration, error) {
	configuration, err := config.Load(configFs())
	if errors.Is(err, fs.ErrNotExist) {
		logger.Printf("no %s in %q, using defaults; run init to create one", config.ConfigurationName, cfgPath)
		return config.Default(), nil
	}
	return configuration, err
}

// rootCmd runs the interactive shell.
var rootCmd = &cobra.Command{
	Use:   shell.ShellName,
	Short: "A small interactive job-control shell",
	Long: `Reads command lines, runs them as pipelines of child processes and
waits for them unless the line ends with &. cd and exit are built in.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		logger := newLogger()

		cfg, err := loadConfig(logger)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("reap") {
			cfg.Background.Reap = reap
		}
		if cmd.Flags().Changed("abort-on-spawn-failure") {
			cfg.Pipeline.AbortOnSpawnFailure = abortOnSpawnFailure
		}

		return runShell(cfg, logger)
	},
}

func runShell(cfg *config.Configuration, logger *log.Logger) error {
	nativeOS := vos.Native()

	// Children keep the default disposition; only the shell survives ^C.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	source, err := shell.NewReadlineSource(shell.ReadlineOptions{
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		HistoryFile:  cfg.HistoryPath(),
		HistoryLimit: cfg.History.Limit,
		Completion:   cfg.Completion,
		PathEnv:      nativeOS.Getenv(vos.EnvPath),
	})
	if err != nil {
		return err
	}
	defer source.Close()

	var reaper *shell.Reaper
	if cfg.Background.Reap {
		reaper = shell.NewReaper(logger)
	}

	promptColor := cfg.PromptColor()
	if promptColor != nil && !isatty.IsTerminal(os.Stdout.Fd()) {
		promptColor = nil
	}

	sh := &shell.Shell{
		Source: source,
		Prompt: &shell.PromptRenderer{
			OS:           nativeOS,
			DomainSuffix: cfg.Prompt.DomainSuffix,
			Color:        promptColor,
		},
		Executor: &shell.Executor{
			Stdin:               os.Stdin,
			Stdout:              os.Stdout,
			Stderr:              os.Stderr,
			OS:                  nativeOS,
			Launcher:            &shell.ExecLauncher{Stderr: os.Stderr, Env: nativeOS},
			AbortOnSpawnFailure: cfg.Pipeline.AbortOnSpawnFailure,
			Reaper:              reaper,
			Log:                 logger,
		},
		Reaper: reaper,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Log:    logger,
	}
	return sh.Run()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "configuration directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log shell internals to stderr")
	rootCmd.Flags().BoolVar(&reap, "reap", false, "collect finished background jobs before each prompt")
	rootCmd.Flags().BoolVar(&abortOnSpawnFailure, "abort-on-spawn-failure", false, "stop a pipeline when a stage can't be started")
}
