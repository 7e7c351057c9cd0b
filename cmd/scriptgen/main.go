package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-scriptgen"
	"github.com/jamesainslie/go-scriptgen/internal/config"
	"github.com/jamesainslie/go-scriptgen/internal/logutil"
	"github.com/jamesainslie/go-scriptgen/internal/report"
	"github.com/jamesainslie/go-scriptgen/stopwords"
)

// Set by the build via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewCLI().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// NewCLI builds the scriptgen command tree.
func NewCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "scriptgen",
		Short:        "Preprocess scripts and generate new ones",
		Version:      fmt.Sprintf("%s (%s, %s)", version, commit, date),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default ./scriptgen.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().String("bundle", "preprocess.p", "Preprocessed bundle path")

	rootCmd.AddCommand(
		newPreprocessCmd(),
		newInspectCmd(),
		newGenerateCmd(),
	)
	return rootCmd
}

// loadConfig reads the configuration for cmd and installs its logger as the
// slog default.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	level, err := logutil.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	logger := logutil.NewLogger(cmd.ErrOrStderr(), level)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newPreprocessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preprocess <text-file|dir>",
		Short: "Tokenize a script corpus and write the bundle",
		Args:  cobra.ExactArgs(1),
		RunE:  preprocessHandler,
	}
	cmd.Flags().Uint64("seed", 0, "Stopword downsampling seed (0 picks one)")
	cmd.Flags().Float64("keep", 0.5, "Probability of keeping each stopword occurrence")
	cmd.Flags().String("stopwords", "", "Stopword file, one word per line (default built-in English)")
	return cmd
}

func preprocessHandler(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	stop := stopwords.English()
	if cfg.Preprocess.Stopwords != "" {
		if stop, err = stopwords.Load(cfg.Preprocess.Stopwords); err != nil {
			return err
		}
	}

	opts := []scriptgen.Option{
		scriptgen.WithLogger(logger),
		scriptgen.WithStopwords(stop),
		scriptgen.WithKeepProbability(cfg.Preprocess.KeepProbability),
		scriptgen.WithBundlePath(cfg.Data.Bundle),
	}
	if cfg.Preprocess.Seed != 0 {
		opts = append(opts, scriptgen.WithSeed(cfg.Preprocess.Seed))
	}

	p := scriptgen.New(opts...)
	res, err := p.Preprocess(args[0])
	if err != nil {
		return err
	}
	if err := p.SaveData(res.Bundle); err != nil {
		return err
	}

	report.Compute(res.Words, res.Bundle.IDs, res.Bundle.Vocab, stop).Render(cmd.OutOrStdout())
	return nil
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [bundle]",
		Short: "Summarize a preprocessed bundle",
		Args:  cobra.MaximumNArgs(1),
		RunE:  inspectHandler,
	}
	cmd.Flags().Int("top", 10, "Number of most frequent words to list")
	return cmd
}

func inspectHandler(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path := cfg.Data.Bundle
	if len(args) == 1 {
		path = args[0]
	}
	b, err := scriptgen.LoadPreprocess(path)
	if err != nil {
		return err
	}

	top, _ := cmd.Flags().GetInt("top")
	report.Summarize(b, top).Render(cmd.OutOrStdout())
	return nil
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a script with an ONNX model",
		Args:  cobra.NoArgs,
		RunE:  generateHandler,
	}
	cmd.Flags().String("model", "", "ONNX model exported from training")
	cmd.Flags().String("prime", "moe_szyslak:", "Word(s) to start from")
	cmd.Flags().Int("length", 400, "Number of words to generate")
	cmd.Flags().Int("seq-len", 20, "Model input window length")
	cmd.Flags().Int("top-k", 5, "Sample from this many most likely words")
	cmd.Flags().Uint64("sample-seed", 0, "Sampling seed (0 picks one)")
	cmd.Flags().Int("pool-size", 1, "Number of inference sessions")
	return cmd
}

func generateHandler(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Model.ONNX == "" {
		return errors.New("no model given; set --model or model.onnx")
	}

	b, err := scriptgen.LoadPreprocess(cfg.Data.Bundle)
	if err != nil {
		return err
	}

	opts := []scriptgen.Option{
		scriptgen.WithLogger(logger),
		scriptgen.WithSeqLen(cfg.Generate.SeqLen),
		scriptgen.WithTopK(cfg.Generate.TopK),
		scriptgen.WithPoolSize(cfg.Generate.PoolSize),
	}
	if cfg.Generate.Seed != 0 {
		opts = append(opts, scriptgen.WithSeed(cfg.Generate.Seed))
	}

	g, err := scriptgen.NewGenerator(cfg.Model.ONNX, b, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = g.Close() }()

	text, err := g.Generate(cmd.Context(), cfg.Generate.Prime, cfg.Generate.Length)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
