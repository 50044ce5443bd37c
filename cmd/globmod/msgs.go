package globmod

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Glob imports for JavaScript and TypeScript builds"
	MsgExpandShort     = "Print the module generated for a glob specifier"
	MsgRewriteShort    = "Rewrite glob imports in source files"
	MsgManifestShort   = "Inspect or reset the virtual module manifest"
	MsgListShort       = "List virtual module paths recorded in the manifest"
	MsgClearShort      = "Remove every entry from the manifest"
	MsgDocsShort       = "Display the full documentation"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgManifestEmpty   = "Manifest is empty."
	MsgManifestCleared = "Manifest cleared."
	MsgRewroteFile     = "rewrote %s\n"
	MsgFileUnchanged   = "%s unchanged\n"

	// Error messages
	MsgErrNoProject   = "failed to locate project: %w"
	MsgErrReadFile    = "failed to read %s: %w"
	MsgErrWriteFile   = "failed to write %s: %w"
	MsgErrBadSpec     = "not a valid glob specifier: %q"
	MsgErrRenderDocs  = "failed to render documentation: %w"
	MsgErrListEntries = "failed to read manifest: %w"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagRoot     = "Project root (default: walk up from cwd to the nearest package.json)"
	MsgFlagImporter = "File the specifier is resolved against (default: <root>/index.js)"
	MsgFlagWrite    = "Write result back to the file instead of stdout"
)

// Long messages
const (
	MsgRootLong = `globmod makes glob patterns importable. A build-time transform scans
source files for import and export declarations whose specifier looks like

    import icons from "glob:./icons/*.svg";

and replaces the specifier with the path of a generated virtual module
that re-exports every file the pattern matches. Module identities are
persisted to a manifest so they survive host transform caches across
builds.

This CLI exercises the same pipeline standalone: expand a specifier,
rewrite files in place, and manage the manifest.`

	MsgExpandLong = `Expand resolves a glob specifier against the current project and prints
the generated virtual module source, exactly as the build transform
would register it.`

	MsgRewriteLong = `Rewrite runs the source transform on the given files. Matching glob
specifiers are replaced with virtual module paths and recorded in the
manifest. Without --write the rewritten text goes to stdout.`

	MsgManifestLong = `The manifest records the identity of every virtual module produced so
far, so fresh builds can resolve them before any source file is
re-scanned. Contents are never stored; they are regenerated on demand.`

	MsgCompletionLong = `To load completions:

Bash:
  $ source <(globmod completion bash)

Zsh:
  $ globmod completion zsh > "${fpath[1]}/_globmod"

Fish:
  $ globmod completion fish | source

PowerShell:
  PS> globmod completion powershell | Out-String | Invoke-Expression
`

	MsgUsageTemplate = `{{boldUpper "Usage:"}}{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

{{boldUpper "Aliases:"}}
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

{{boldUpper "Examples:"}}
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

{{boldUpper "Available Commands:"}}{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{bold .Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if not .AllChildCommandsHaveGroup}}

{{bold "Additional Commands:"}}{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{boldUpper "Flags:"}}
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

{{boldUpper "Global Flags:"}}
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
)
