package globmod

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed docs/globmod.md
var docsMarkdown string

func newDocsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "docs",
		Short:   MsgDocsShort,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !stdoutIsTerminal() {
				fmt.Fprint(cmd.OutOrStdout(), docsMarkdown)
				return nil
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(100),
			)
			if err != nil {
				return fmt.Errorf(MsgErrRenderDocs, err)
			}
			rendered, err := renderer.Render(docsMarkdown)
			if err != nil {
				return fmt.Errorf(MsgErrRenderDocs, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
}
