package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"studyplan/internal/domain"
	models "studyplan/internal/domain/models/outline"
	"studyplan/internal/domain/services"
	"studyplan/internal/service/outline"
)

func newOutlinesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outlines",
		Short: "Saved outline commands",
	}
	cmd.AddCommand(newOutlinesListCmd(app))
	cmd.AddCommand(newOutlinesShowCmd(app))
	cmd.AddCommand(newOutlinesCreateCmd(app))
	cmd.AddCommand(newOutlinesRenameCmd(app))
	cmd.AddCommand(newOutlinesDeleteCmd(app))
	cmd.AddCommand(newOutlinesDuplicateCmd(app))
	cmd.AddCommand(newOutlinesMergeCmd(app))
	cmd.AddCommand(newOutlinesMoveCmd(app))
	cmd.AddCommand(newOutlinesExportCmd(app))
	return cmd
}

// outlineSummary is one row of `outlines list`.
type outlineSummary struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	FolderID     *string `json:"folder_id,omitempty"`
	Sections     int     `json:"sections"`
	TotalMinutes float64 `json:"total_minutes"`
}

func newOutlinesListCmd(app *App) *cobra.Command {
	var folderID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved outlines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(ctx context.Context, ws services.WorkspaceService) error {
				snap, err := ws.Snapshot(ctx, app.User)
				if err != nil {
					return err
				}
				out := make([]outlineSummary, 0, len(snap.Outlines))
				for _, o := range snap.Outlines {
					if folderID != "" && (o.FolderID == nil || *o.FolderID != folderID) {
						continue
					}
					out = append(out, outlineSummary{
						ID:           o.ID,
						Title:        o.DisplayTitle(),
						FolderID:     o.FolderID,
						Sections:     len(o.Sections),
						TotalMinutes: o.TotalMinutes(),
					})
				}
				return writeOut(cmd, app, out)
			})
		},
	}
	cmd.Flags().StringVar(&folderID, "folder", "", "Only outlines directly in this folder")
	return cmd
}

func newOutlinesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <outline-id>",
		Short: "Show an outline with its sections and links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(ctx context.Context, ws services.WorkspaceService) error {
				snap, err := ws.Snapshot(ctx, app.User)
				if err != nil {
					return err
				}
				o := findOutline(snap, args[0])
				if o == nil {
					return domain.NewNotFound("outline", args[0])
				}
				return writeOut(cmd, app, o)
			})
		},
	}
}

func newOutlinesCreateCmd(app *App) *cobra.Command {
	var title, folderID string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an empty outline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, app, outline.CreateOutlineOp{Title: title, FolderID: optional(folderID)})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Outline title (default \"New outline\")")
	cmd.Flags().StringVar(&folderID, "folder", "", "Folder id (default root)")
	return cmd
}

func newOutlinesRenameCmd(app *App) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "rename <outline-id>",
		Short: "Rename an outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, app, outline.RenameOutlineOp{OutlineID: args[0], Title: title})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title (may be empty)")
	return cmd
}

func newOutlinesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <outline-id>",
		Short: "Delete an outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, app, outline.DeleteOutlineOp{OutlineID: args[0]})
		},
	}
}

func newOutlinesDuplicateCmd(app *App) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "duplicate <outline-id>",
		Short: "Copy an outline with fresh ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := outline.DuplicateOutlineOp{OutlineID: args[0]}
			if cmd.Flags().Changed("title") {
				op.Title = &title
			}
			return runOp(cmd, app, op)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Title of the copy (default \"<title> (copy)\")")
	return cmd
}

func newOutlinesMergeCmd(app *App) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "merge <source-id> <target-id>",
		Short: "Create a new outline from the target's sections followed by the source's",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, app, outline.MergeOutlinesOp{SourceID: args[0], TargetID: args[1], Title: title})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Title of the merged outline")
	return cmd
}

func newOutlinesMoveCmd(app *App) *cobra.Command {
	var folderID string
	cmd := &cobra.Command{
		Use:   "move <outline-id>",
		Short: "Move an outline into a folder, or to root without --folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, app, outline.MoveOutlineOp{OutlineID: args[0], FolderID: optional(folderID)})
		},
	}
	cmd.Flags().StringVar(&folderID, "folder", "", "Destination folder id")
	return cmd
}

func newSectionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "Section commands",
	}
	cmd.AddCommand(newSectionsAddCmd(app))
	cmd.AddCommand(newSectionsUpdateCmd(app))
	cmd.AddCommand(newSectionsDeleteCmd(app))
	cmd.AddCommand(newSectionsReorderCmd(app))
	return cmd
}

func newSectionsAddCmd(app *App) *cobra.Command {
	var name, desc string
	var minutes float64
	cmd := &cobra.Command{
		Use:   "add <outline-id>",
		Short: "Append a section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := outline.SectionInput{Name: name, Desc: desc}
			if cmd.Flags().Changed("minutes") {
				m := models.Minutes(minutes)
				in.Minutes = &m
			}
			return runOp(cmd, app, outline.AddSectionOp{OutlineID: args[0], SectionInput: in})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Section name")
	cmd.Flags().Float64Var(&minutes, "minutes", 0, "Duration in minutes")
	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	return cmd
}

func newSectionsUpdateCmd(app *App) *cobra.Command {
	var name, desc string
	var minutes float64
	cmd := &cobra.Command{
		Use:   "update <outline-id> <section-id>",
		Short: "Edit a section's name, minutes or description",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch outline.SectionPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("desc") {
				patch.Desc = &desc
			}
			if cmd.Flags().Changed("minutes") {
				m := models.Minutes(minutes)
				patch.Minutes = &m
			}
			return runOp(cmd, app, outline.UpdateSectionOp{OutlineID: args[0], SectionID: args[1], SectionPatch: patch})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().Float64Var(&minutes, "minutes", 0, "New duration in minutes")
	cmd.Flags().StringVar(&desc, "desc", "", "New description")
	return cmd
}

func newSectionsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <outline-id> <section-id>",
		Short: "Delete a section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, app, outline.DeleteSectionOp{OutlineID: args[0], SectionID: args[1]})
		},
	}
}

func newSectionsReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <outline-id> <from> <to>",
		Short: "Move the section at index from to index to",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := indexes(args[1], args[2])
			if err != nil {
				return writeErr(cmd, err)
			}
			return runOp(cmd, app, outline.ReorderSectionOp{OutlineID: args[0], From: from, To: to})
		},
	}
}

func findOutline(snap *models.Snapshot, id string) *models.Outline {
	for i := range snap.Outlines {
		if snap.Outlines[i].ID == id {
			return &snap.Outlines[i]
		}
	}
	return nil
}

func indexes(from, to string) (int, int, error) {
	f, err := strconv.Atoi(from)
	if err != nil {
		return 0, 0, domain.Invalid("from must be an integer: %q", from)
	}
	t, err := strconv.Atoi(to)
	if err != nil {
		return 0, 0, domain.Invalid("to must be an integer: %q", to)
	}
	return f, t, nil
}
