package cli

import (
	"context"

	"github.com/spf13/cobra"

	models "studyplan/internal/domain/models/outline"
	"studyplan/internal/domain/services"
	"studyplan/internal/service/outline"
)

func newFoldersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folders",
		Short: "Folder commands",
	}
	cmd.AddCommand(newFoldersCreateCmd(app))
	cmd.AddCommand(newFoldersRenameCmd(app))
	cmd.AddCommand(newFoldersDeleteCmd(app))
	cmd.AddCommand(newFoldersMoveCmd(app))
	return cmd
}

func newFoldersCreateCmd(app *App) *cobra.Command {
	var title, parentID string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, app, outline.CreateFolderOp{Title: title, ParentID: optional(parentID)})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Folder title (default \"New folder\")")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent folder id (default root)")
	return cmd
}

func newFoldersRenameCmd(app *App) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "rename <folder-id>",
		Short: "Rename a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, app, outline.RenameFolderOp{FolderID: args[0], Title: title})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	return cmd
}

func newFoldersDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <folder-id>",
		Short: "Delete a folder; its contents move up to its parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, app, outline.DeleteFolderOp{FolderID: args[0]})
		},
	}
}

func newFoldersMoveCmd(app *App) *cobra.Command {
	var parentID string
	cmd := &cobra.Command{
		Use:   "move <folder-id>",
		Short: "Move a folder under another, or to root without --parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, app, outline.MoveFolderOp{FolderID: args[0], ParentID: optional(parentID)})
		},
	}
	cmd.Flags().StringVar(&parentID, "parent", "", "Destination folder id")
	return cmd
}

func newTreeCmd(app *App) *cobra.Command {
	var expand []string
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the nested folder and outline tree",
		Long: `Print the nested folder and outline tree.

With --expand, folders start collapsed and only the listed ones show
their contents. Without it the whole tree is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(ctx context.Context, ws services.WorkspaceService) error {
				tree, err := ws.Tree(ctx, app.User)
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("expand") {
					view := models.NewViewState()
					for _, id := range expand {
						if !view.IsExpanded(id) {
							view.ToggleExpanded(id)
						}
					}
					tree = view.Visible(tree)
				}
				return writeOut(cmd, app, tree)
			})
		},
	}
	cmd.Flags().StringSliceVar(&expand, "expand", nil, "Folder ids to show expanded (repeatable)")
	return cmd
}

func newShelfCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shelf",
		Short: "Link template shelf commands",
	}
	cmd.AddCommand(newShelfListCmd(app))
	cmd.AddCommand(newShelfAddCmd(app))
	return cmd
}

func newShelfListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List shelf items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(ctx context.Context, ws services.WorkspaceService) error {
				snap, err := ws.Snapshot(ctx, app.User)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, snap.Shelf)
			})
		},
	}
}

func newShelfAddCmd(app *App) *cobra.Command {
	var in outline.LinkInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a link template to the shelf",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, app, outline.AddShelfItemOp{Link: in})
		},
	}
	cmd.Flags().StringVar(&in.Label, "label", "", "Link label")
	cmd.Flags().StringVar(&in.URL, "url", "", "Link URL")
	cmd.Flags().StringVar(&in.Icon, "icon", "", "Icon kind (emoji|img)")
	cmd.Flags().StringVar(&in.Emoji, "emoji", "", "Emoji icon")
	cmd.Flags().StringVar(&in.Img, "img", "", "Image icon URL")
	return cmd
}
