package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"studyplan/internal/domain"
	models "studyplan/internal/domain/models/outline"
	"studyplan/internal/domain/services"
)

func newOutlinesExportCmd(app *App) *cobra.Command {
	var render bool
	var width int
	cmd := &cobra.Command{
		Use:   "export <outline-id>",
		Short: "Print an outline as markdown",
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

				doc := outlineMarkdown(o)
				if render {
					doc, err = renderMarkdown(doc, width)
					if err != nil {
						return err
					}
				}
				_, err = io.WriteString(cmd.OutOrStdout(), doc)
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&render, "render", false, "Render for the terminal")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width when rendering")
	return cmd
}

// outlineMarkdown writes sections as headings with their minutes, notes and
// links. Subsections nest one heading level deeper.
func outlineMarkdown(o *models.Outline) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", o.DisplayTitle())
	fmt.Fprintf(&b, "_Total: %s min_\n", formatMinutes(o.TotalMinutes()))
	for i := range o.Sections {
		writeSection(&b, &o.Sections[i], 2)
	}
	return b.String()
}

func writeSection(b *strings.Builder, s *models.Section, level int) {
	if level > 6 {
		level = 6
	}
	fmt.Fprintf(b, "\n%s %s (%s min)\n", strings.Repeat("#", level), s.Name, formatMinutes(float64(s.Minutes)))
	if d := strings.TrimSpace(s.Desc); d != "" {
		fmt.Fprintf(b, "\n%s\n", d)
	}
	if len(s.Links) > 0 {
		b.WriteString("\n")
		for _, l := range s.Links {
			icon := ""
			if l.Icon != models.IconImage {
				icon = l.DisplayIcon() + " "
			}
			fmt.Fprintf(b, "- %s[%s](%s)\n", icon, l.Label, l.URL)
		}
	}
	for i := range s.Subsections {
		writeSection(b, &s.Subsections[i], level+1)
	}
}

func formatMinutes(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}

func renderMarkdown(doc string, width int) (string, error) {
	if width < 20 {
		width = 20
	}
	// A fixed style avoids terminal background queries.
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(doc)
}
