package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spboyer/modelpick/internal/knowledge"
	"github.com/spboyer/modelpick/internal/projectconfig"
	"github.com/spboyer/modelpick/internal/recommend"
	"github.com/spf13/cobra"
)

var version = "dev"

// cli carries state shared by every subcommand of one invocation.
type cli struct {
	kbPath string
	cfg    *projectconfig.ProjectConfig
	engine *recommend.Engine
}

func newRootCommand() *cobra.Command {
	app := &cli{}

	cmd := &cobra.Command{
		Use:   "modelpick",
		Short: "Recommend ML model families for a dataset profile",
		Long: `Modelpick matches a short description of a dataset against a rule base and
returns a ranked list of model families worth trying first, each with the
reasons it was suggested.

A profile has five attributes: problem type, whether the features are roughly
Gaussian, class imbalance, more features than samples (p ≫ n) and which error
is more costly.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&app.kbPath, "kb", "", "Knowledge base YAML file (defaults to the built-in rules)")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
		return app.loadConfig()
	}

	cmd.AddCommand(newRecommendCommand(app))
	cmd.AddCommand(newRulesCommand(app))
	cmd.AddCommand(newNotesCommand(app))
	cmd.AddCommand(newServeCommand(app))

	return cmd
}

func (c *cli) loadConfig() error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}
	cfg, err := projectconfig.Load(wd)
	if err != nil {
		return err
	}
	if cfg.Dir != "" {
		slog.Debug("project config loaded", "dir", cfg.Dir)
	}
	c.cfg = cfg
	return nil
}

// config returns the loaded project config, or defaults before loading.
func (c *cli) config() *projectconfig.ProjectConfig {
	if c.cfg == nil {
		c.cfg = projectconfig.New()
	}
	return c.cfg
}

// knowledgeBase loads the rules named by --kb, then the project config, then
// falls back to the built-in reference rules.
func (c *cli) knowledgeBase() (*knowledge.Base, error) {
	path := c.kbPath
	if path == "" {
		path = c.config().KnowledgeBasePath()
	}
	if path == "" {
		kb, err := knowledge.Reference()
		if err != nil {
			return nil, err
		}
		slog.Debug("knowledge base loaded", "source", "reference", "rules", kb.Len())
		return kb, nil
	}

	kb, err := knowledge.LoadFile(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("knowledge base loaded", "source", path, "rules", kb.Len())
	return kb, nil
}

// recommender returns the engine, loading the knowledge base on first use.
func (c *cli) recommender() (*recommend.Engine, error) {
	if c.engine != nil {
		return c.engine, nil
	}
	kb, err := c.knowledgeBase()
	if err != nil {
		return nil, err
	}
	c.engine = recommend.NewEngine(kb)
	return c.engine, nil
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
