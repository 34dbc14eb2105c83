// logsieve - log normalization tool
//
// logsieve parses device, player and forwarded logs into entries with a
// severity, a message and structured stack frames.
package main

import (
	"os"

	"github.com/ccollicutt/logsieve/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
