package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/shelf/internal/catalog"
	"github.com/charmbracelet/shelf/internal/config"
	"github.com/charmbracelet/shelf/internal/log"
	"github.com/charmbracelet/shelf/internal/tui"
	"github.com/charmbracelet/shelf/internal/version"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")

	rootCmd.Flags().IntP("generate", "g", 0, "Browse N generated products instead of a catalog file")
	rootCmd.Flags().String("images", "", "Directory of images used as thumbnails for generated products")
	rootCmd.Flags().Bool("no-watch", false, "Do not reload the catalog when the file changes")
}

var rootCmd = &cobra.Command{
	Use:   "shelf [catalog.json]",
	Short: "Browse a product catalog in your terminal",
	Long: heredoc.Doc(`
		Shelf is a terminal product browser. Only the rows on screen are
		rendered, and thumbnails load once a row scrolls into view.
	`),
	Example: heredoc.Doc(`
		# Browse a catalog file
		shelf products.json

		# Browse ten thousand generated products
		shelf --generate 10000

		# Use your own images as thumbnails
		shelf --generate 500 --images ~/Pictures

		# Run with debug logging in a specific directory
		shelf -d -c /path/to/project
	`),
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setupConfig(cmd)
		if err != nil {
			return err
		}

		generate, _ := cmd.Flags().GetInt("generate")
		images, _ := cmd.Flags().GetString("images")
		noWatch, _ := cmd.Flags().GetBool("no-watch")

		cat, path, err := loadCatalog(cfg, args, generate, images)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		program := tea.NewProgram(
			tui.New(cfg, cat),
			tea.WithAltScreen(),
			tea.WithContext(ctx),
			tea.WithMouseCellMotion(),
		)

		if path != "" && !noWatch {
			if err := catalog.Watch(ctx, path, func(msg catalog.ReloadedMsg) {
				program.Send(msg)
			}); err != nil {
				slog.Warn("Catalog will not reload on change", "path", path, "error", err)
			}
		}

		defer log.RecoverPanic("main", nil)
		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %v", err)
		}
		return nil
	},
}

func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

func setupConfig(cmd *cobra.Command) (*config.Config, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	cwd, err := resolveCwd(cmd)
	if err != nil {
		return nil, err
	}
	return config.Load(cwd, debug)
}

func resolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		if err := os.Chdir(cwd); err != nil {
			return "", fmt.Errorf("failed to change directory: %v", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %v", err)
	}
	return cwd, nil
}

// loadCatalog returns the catalog to browse and the file backing it, if any.
// Generated catalogs have no backing file.
func loadCatalog(cfg *config.Config, args []string, generate int, images string) (*catalog.Catalog, string, error) {
	if generate > 0 {
		if images == "" {
			images = cfg.Images
		}
		var paths []string
		if images != "" {
			var err error
			paths, err = catalog.ScanImages(images, catalog.DefaultImagePattern)
			if err != nil {
				return nil, "", err
			}
			slog.Debug("Scanned thumbnails", "dir", images, "count", len(paths))
		}
		return catalog.Generate(generate, paths), "", nil
	}

	path := cfg.Catalog
	if len(args) > 0 {
		path = args[0]
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.WorkingDir(), path)
		}
	}
	if path == "" {
		return nil, "", fmt.Errorf("no catalog given: pass a catalog file or use --generate")
	}

	cat, err := catalog.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cat, path, nil
}
