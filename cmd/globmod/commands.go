package globmod

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/globmod/globmod/internal/version"
	"github.com/globmod/globmod/pkg/errors"
	"github.com/globmod/globmod/pkg/plugin"
	"github.com/globmod/globmod/pkg/style"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// pluginFromFlags constructs a plugin instance for the project named by
// the persistent --root flag, falling back to root discovery from the
// working directory.
func pluginFromFlags(cmd *cobra.Command) (*plugin.Plugin, error) {
	root, _ := cmd.Root().PersistentFlags().GetString("root")
	pl, err := plugin.New(plugin.Options{ProjectRoot: root})
	if err != nil {
		return nil, fmt.Errorf(MsgErrNoProject, err)
	}
	return pl, nil
}

func newExpandCmd() *cobra.Command {
	var importer string

	cmd := &cobra.Command{
		Use:     "expand <specifier>",
		Short:   MsgExpandShort,
		Long:    MsgExpandLong,
		Example: `  globmod expand "glob:./icons/*.svg"`,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := pluginFromFlags(cmd)
			if err != nil {
				return err
			}

			anchor := importer
			if anchor == "" {
				anchor = filepath.Join(pl.Paths().ProjectRoot(), "index.js")
			}

			vpath, err := pl.Resolver().ResolvePath(args[0], anchor)
			if err != nil {
				if errors.IsErrorCode(err, errors.ErrSpecifier) {
					return fmt.Errorf(MsgErrBadSpec, args[0])
				}
				return err
			}
			contents, err := pl.Resolver().GenerateContents(vpath)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), style.PathStyle.Render(vpath))
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), contents)
			return nil
		},
	}

	cmd.Flags().StringVar(&importer, "importer", "", MsgFlagImporter)
	return cmd
}

func newRewriteCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:     "rewrite <files...>",
		Short:   MsgRewriteShort,
		Long:    MsgRewriteLong,
		Example: `  globmod rewrite --write src/**/*.ts`,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := pluginFromFlags(cmd)
			if err != nil {
				return err
			}

			for _, file := range args {
				abs, err := filepath.Abs(file)
				if err != nil {
					return err
				}
				data, err := os.ReadFile(abs)
				if err != nil {
					return fmt.Errorf(MsgErrReadFile, file, err)
				}

				out, err := pl.Rewriter().Rewrite(string(data), abs)
				if err != nil {
					return err
				}

				if !write {
					fmt.Fprint(cmd.OutOrStdout(), out)
					continue
				}
				if out == string(data) {
					fmt.Fprintf(cmd.OutOrStdout(), MsgFileUnchanged, file)
					continue
				}

				info, err := os.Stat(abs)
				if err != nil {
					return fmt.Errorf(MsgErrWriteFile, file, err)
				}
				if err := os.WriteFile(abs, []byte(out), info.Mode().Perm()); err != nil {
					return fmt.Errorf(MsgErrWriteFile, file, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), MsgRewroteFile, file)
			}

			log.Info().Int("files", len(args)).Bool("write", write).Msg("Rewrite finished")
			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, MsgFlagWrite)
	return cmd
}

func newManifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "manifest",
		Short:   MsgManifestShort,
		Long:    MsgManifestLong,
		GroupID: "core",
	}
	cmd.AddCommand(newManifestListCmd())
	cmd.AddCommand(newManifestClearCmd())
	return cmd
}

func newManifestListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: MsgListShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := pluginFromFlags(cmd)
			if err != nil {
				return err
			}

			entries, err := pl.Manifest().Paths()
			if err != nil {
				return fmt.Errorf(MsgErrListEntries, err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), style.MutedStyle.Render(MsgManifestEmpty))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), style.TitleStyle.Render(pl.Manifest().Path()))
			for _, entry := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), style.ListItemStyle.Render(style.PathStyle.Render(entry)))
			}
			return nil
		},
	}
}

func newManifestClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: MsgClearShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := pluginFromFlags(cmd)
			if err != nil {
				return err
			}
			if err := pl.Manifest().Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), style.SuccessStyle.Render(MsgManifestCleared))
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "globmod version %s\n", version.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", version.Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Run: func(cmd *cobra.Command, args []string) {
			switch args[0] {
			case "bash":
				if err := cmd.Root().GenBashCompletion(cmd.OutOrStdout()); err != nil {
					log.Error().Err(err).Msg("Failed to generate bash completion")
				}
			case "zsh":
				if err := cmd.Root().GenZshCompletion(cmd.OutOrStdout()); err != nil {
					log.Error().Err(err).Msg("Failed to generate zsh completion")
				}
			case "fish":
				if err := cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true); err != nil {
					log.Error().Err(err).Msg("Failed to generate fish completion")
				}
			case "powershell":
				if err := cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout()); err != nil {
					log.Error().Err(err).Msg("Failed to generate powershell completion")
				}
			}
		},
	}
}
