package commands

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logsieve/pkg/detector"
	"github.com/ccollicutt/logsieve/pkg/stacktrace"
)

// Version is set via ldflags at build time.
var Version = "dev"

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print the version of logsieve. With --verbose, also list the built-in source and stack grammars.",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "logsieve %s\n", Version)
			if verbose {
				writeBuildDetails(w)
			}
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show runtime and grammar details")
	return cmd
}

func writeBuildDetails(w io.Writer) {
	fmt.Fprintf(w, "  go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)

	fmt.Fprintf(w, "  sources:\n")
	for _, f := range detector.DefaultFormats() {
		fmt.Fprintf(w, "    %-10s %s\n", f.Kind, f.Name)
	}
	fmt.Fprintf(w, "    %-10s %d-byte binary records\n", "forwarded", detector.RecordSize)

	fmt.Fprintf(w, "  stack grammars:\n")
	for _, name := range []string{"engine", "logfile", "compile-diagnostic"} {
		if g, ok := stacktrace.Builtin(name); ok {
			fmt.Fprintf(w, "    %s\n", g.Name)
		}
	}
}
