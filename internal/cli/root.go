package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"studyplan/internal/config"
	"studyplan/internal/domain/services"
	"studyplan/internal/repository/sqlite"
	"studyplan/internal/service/outline"
	"studyplan/internal/service/workspace"
)

// App holds the persistent flags shared by every command.
type App struct {
	DBPath string
	User   string
	Pretty bool
	Debug  bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "planner",
		Short:        "Study plan outlines on the local workspace",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Create an outline and give it a section
  planner outlines create --title "Calculus"
  planner sections add <outline-id> --name "Limits" --minutes 30

  # Ask the model for a plan and keep it
  planner generate --brief "Three evenings before the chem midterm" --import
`),
	}

	cmd.PersistentFlags().StringVar(&app.DBPath, "db", envOr("LOCAL_DB_PATH", "studyplan.db"), "Path to the local workspace database")
	cmd.PersistentFlags().StringVar(&app.User, "user", envOr("PLANNER_USER", "local"), "Workspace owner id")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Log to stderr")

	cmd.AddCommand(newOutlinesCmd(app))
	cmd.AddCommand(newSectionsCmd(app))
	cmd.AddCommand(newFoldersCmd(app))
	cmd.AddCommand(newShelfCmd(app))
	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newGenerateCmd(app))

	return cmd
}

func (app *App) logger(cmd *cobra.Command) *slog.Logger {
	if !app.Debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// withWorkspace opens the local database for the duration of fn. The CLI
// never talks to the cloud store.
func withWorkspace(cmd *cobra.Command, app *App, fn func(ctx context.Context, ws services.WorkspaceService) error) error {
	repo, err := sqlite.Open(app.DBPath)
	if err != nil {
		return writeErr(cmd, fmt.Errorf("open %s: %w", app.DBPath, err))
	}
	defer repo.Close()

	ws := workspace.NewService(repo, nil, 0, app.logger(cmd))
	defer ws.Close()

	if err := fn(cmd.Context(), ws); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

// runOp applies one operation and prints what it produced.
func runOp(cmd *cobra.Command, app *App, op outline.Operation) error {
	return withWorkspace(cmd, app, func(ctx context.Context, ws services.WorkspaceService) error {
		res, err := ws.Apply(ctx, app.User, op)
		if err != nil {
			return err
		}
		if res.Result != nil {
			return writeOut(cmd, app, res.Result)
		}
		return writeOut(cmd, app, res)
	})
}

func loadConfig(app *App) *config.Config {
	cfg := config.Load()
	cfg.LocalDBPath = app.DBPath
	return cfg
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut prints v inside a {"data": ...} envelope.
func writeOut(cmd *cobra.Command, app *App, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	if app.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(map[string]any{"data": v})
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

// optional returns nil for an empty flag value.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
