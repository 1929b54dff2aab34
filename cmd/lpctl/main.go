// Command lpctl renders, assembles and checks landing page templates from
// export files without running the server.
package main

import (
	"fmt"
	"os"

	"lpmanager/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lpctl:", err)
		os.Exit(1)
	}
}
