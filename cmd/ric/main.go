// Command ric runs a command inside a Docker container as if it had run locally.
//
//	ric --image debian -- ls -l
//	ric --container builder --root -- make install
package main

import (
	"os"

	"github.com/ruffel/ric"
)

func main() {
	a := &app{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		newEngine: newDockerEngine,
		signals:   ric.NotifySignals,
	}

	os.Exit(a.execute(os.Args[1:]))
}
