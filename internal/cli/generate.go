package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"studyplan/internal/capabilities"
	"studyplan/internal/domain/models/schedule"
	"studyplan/internal/domain/services"
	serviceLLM "studyplan/internal/service/llm"
	"studyplan/internal/service/outline"
	scheduleSvc "studyplan/internal/service/schedule"
)

func newGenerateCmd(app *App) *cobra.Command {
	var (
		brief, constraints, model, folderID  string
		doImport                             bool
		noLinks, noDescriptions, subsections bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a study schedule from a brief",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &schedule.GenerateRequest{Brief: brief, Model: model}
			if constraints != "" {
				req.Constraints = json.RawMessage(constraints)
			}
			req.Controls = &schedule.Controls{
				IncludeLinks:        boolPtr(!noLinks),
				IncludeDescriptions: boolPtr(!noDescriptions),
				IncludeSubsections:  boolPtr(subsections),
			}

			gateway, err := newScheduleService(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			resp, err := gateway.Generate(cmd.Context(), app.User, req)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !doImport {
				return writeOut(cmd, app, resp)
			}

			return withWorkspace(cmd, app, func(ctx context.Context, ws services.WorkspaceService) error {
				res, err := ws.Apply(ctx, app.User, outline.ImportScheduleOp{
					Schedule: resp.Schedule,
					FolderID: optional(folderID),
				})
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{
					"model":   resp.Model,
					"outline": res.Result,
				})
			})
		},
	}

	cmd.Flags().StringVar(&brief, "brief", "", "What to plan, in plain words")
	cmd.Flags().StringVar(&constraints, "constraints", "", "Extra constraints as a JSON object")
	cmd.Flags().StringVar(&model, "model", "", "Model id (unknown ids use the default)")
	cmd.Flags().BoolVar(&doImport, "import", false, "Save the result as a new outline")
	cmd.Flags().StringVar(&folderID, "folder", "", "Folder for the imported outline")
	cmd.Flags().BoolVar(&noLinks, "no-links", false, "Ask for no materials")
	cmd.Flags().BoolVar(&noDescriptions, "no-descriptions", false, "Ask for no descriptions")
	cmd.Flags().BoolVar(&subsections, "subsections", false, "Allow nested subsections")
	_ = cmd.MarkFlagRequired("brief")
	return cmd
}

func newScheduleService(cmd *cobra.Command, app *App) (services.ScheduleService, error) {
	cfg := loadConfig(app)
	logger := app.logger(cmd)

	models, err := capabilities.NewRegistry(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("load model allow-list: %w", err)
	}
	models = models.WithDefault(cfg.DefaultModel)

	providers, err := serviceLLM.SetupProviders(cfg, models, logger)
	if err != nil {
		return nil, err
	}
	return scheduleSvc.NewService(models, providers, cfg.GenerationTimeout, logger), nil
}

func boolPtr(b bool) *bool { return &b }
