// Package cli implements the iritop command-line interface.
//
// The package is organized around Cobra commands, with each command
// delegating to a small implementation function. The general structure
// follows a clean separation between:
//
//   - Command definitions (cobra.Command instances)
//   - Config resolution (file values overridden by changed flags)
//   - Implementation details (in other internal packages)
//
// # Command Structure
//
// The root command is "iritop" and running it bare starts the dashboard:
//
//	iritop              - Watch the configured node
//	iritop init         - Create a .iritop.yaml config
//	iritop doctor       - Diagnose config and node issues
//	iritop version      - Print version information
//	iritop completion   - Generate shell completion scripts
//
// # Flag Handling
//
// The --config flag is persistent and available to all subcommands. The
// dashboard flags (--node, --poll-delay, --sort, ...) live on the root
// command only and mirror the config file keys one for one. File values
// load first; a flag overrides its key only when the flag was actually
// set, so partial overrides compose naturally:
//
//	iritop --config prod.yaml --sort -3
//
// Duration flags are strings parsed with time.ParseDuration so the CLI
// accepts the same "2s"/"500ms" forms the file does.
package cli
