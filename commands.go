package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"autocommiter/internal/clients/inference"
	"autocommiter/internal/config"
	"autocommiter/internal/core"
	"autocommiter/internal/git"
	"autocommiter/internal/models"
	"autocommiter/internal/tui"
	"autocommiter/internal/utils"

	"github.com/spf13/cobra"
)

var errNoPicker = errors.New("no model id given and no terminal for the picker")

type generateFlags struct {
	repo   string
	noPush bool
	force  bool
}

func newGenerateCmd() *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Stage all changes, generate a commit message, commit and push",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, flags)
		},
	}
	cmd.Flags().StringVarP(&flags.repo, "repo", "r", ".", "Path inside the repository")
	cmd.Flags().BoolVarP(&flags.noPush, "no-push", "n", false, "Commit without pushing")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Commit without asking for confirmation")
	return cmd
}

func runGenerate(cmd *cobra.Command, flags generateFlags) error {
	store, err := config.NewDefaultStore()
	if err != nil {
		return err
	}

	g := &tui.Generator{
		Store:  store,
		Runner: git.NewExecRunner(""),
		NewClient: func(key string) core.MessageGenerator {
			return inference.NewClient(key, apiBaseURL)
		},
		Out:         cmd.OutOrStdout(),
		Interactive: utils.IsTTY(),
	}
	return g.Run(cmd.Context(), tui.RunOptions{
		RepoPath: flags.repo,
		NoPush:   flags.noPush,
		Force:    flags.force,
	})
}

func newSetAPIKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-api-key [key]",
		Short: "Save the GitHub token used for the Models API",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.NewDefaultStore()
			if err != nil {
				return err
			}

			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				key, err = tui.ReadSecret(cmd.OutOrStdout(), cmd.InOrStdin(), "Enter your GitHub token: ")
				if err != nil {
					return err
				}
			}

			if err := store.SetAPIKey(key); err != nil {
				return err
			}
			tui.Success(cmd.OutOrStdout(), "✓ API key saved to %s", store.Path())
			return nil
		},
	}
}

func newGetAPIKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-api-key",
		Short: "Show the saved API key, masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.HasAPIKey() {
				fmt.Fprintln(cmd.OutOrStdout(), "No API key set.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key: %s\n", config.MaskKey(cfg.APIKey))
			return nil
		},
	}
}

func newRefreshModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-models",
		Short: "Fetch the available chat models and cache them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.HasAPIKey() {
				return fmt.Errorf("%w: run `autocommiter set-api-key` first", core.ErrNoAPIKey)
			}

			catalog, err := newCatalog()
			if err != nil {
				return err
			}
			n, err := catalog.Refresh(cmd.Context(), cfg.APIKey)
			if err != nil {
				return err
			}
			tui.Success(cmd.OutOrStdout(), "✓ Cached %d model(s)", n)
			return nil
		},
	}
}

func newListModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-models",
		Short: "List cached models and mark the selected one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			available, err := cachedModels()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			current := cfg.Model()
			for _, m := range available {
				marker := "  "
				if m.ID == current {
					marker = "→ "
				}
				fmt.Fprintf(out, "%s%s (%s)\n", marker, m.ID, m.DisplayName())
				if m.Summary != "" {
					tui.Dim(out, "    %s", m.Summary)
				}
			}
			return nil
		},
	}
}

func newSelectModelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select-model [id]",
		Short: "Choose the model used for generation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := loadConfig()
			if err != nil {
				return err
			}
			available, err := cachedModels()
			if err != nil {
				return err
			}

			var id string
			if len(args) == 1 {
				id = args[0]
				if _, ok := models.Find(available, id); !ok {
					return fmt.Errorf("unknown model %q, see `autocommiter list-models`", id)
				}
			} else {
				if !utils.IsTTY() {
					return errNoPicker
				}
				id, err = tui.PickModel(available, cfg.Model())
				if err != nil {
					return err
				}
			}

			if err := store.SetModel(id); err != nil {
				return err
			}
			tui.Success(cmd.OutOrStdout(), "✓ Selected model: %s", id)
			return nil
		},
	}
}

func newGetModelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-model",
		Short: "Show the selected model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			available, err := cachedModels()
			if err != nil {
				return err
			}

			id := cfg.Model()
			if m, ok := models.Find(available, id); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Current model: %s (%s)\n", id, m.DisplayName())
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Current model: %s\n", id)
			return nil
		},
	}
}

func newToggleGitmojiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-gitmoji",
		Short: "Turn gitmoji prefixes on or off",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.NewDefaultStore()
			if err != nil {
				return err
			}
			enabled, err := store.ToggleGitmoji()
			if err != nil {
				return err
			}
			if enabled {
				tui.Success(cmd.OutOrStdout(), "✓ Gitmoji enabled")
			} else {
				tui.Success(cmd.OutOrStdout(), "✓ Gitmoji disabled")
			}
			return nil
		},
	}
}

func newGetConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-config",
		Short: "Print the configuration with the API key masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.HasAPIKey() {
				cfg.APIKey = config.MaskKey(cfg.APIKey)
			}

			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			tui.Dim(cmd.OutOrStdout(), "# %s", store.Path())
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newResetConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-config",
		Short: "Restore the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.NewDefaultStore()
			if err != nil {
				return err
			}
			if err := store.Reset(); err != nil {
				return err
			}
			tui.Success(cmd.OutOrStdout(), "✓ Configuration reset to defaults")
			return nil
		},
	}
}

func loadConfig() (config.Config, *config.Store, error) {
	store, err := config.NewDefaultStore()
	if err != nil {
		return config.Config{}, nil, err
	}
	cfg, err := store.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, store, nil
}

func newCatalog() (*models.Catalog, error) {
	path, err := models.DefaultCachePath()
	if err != nil {
		return nil, err
	}
	return models.NewCatalog(path, apiBaseURL), nil
}

func cachedModels() ([]models.ModelInfo, error) {
	catalog, err := newCatalog()
	if err != nil {
		return nil, err
	}
	return catalog.Cached()
}
