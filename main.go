// Entry point for the simulation-core binary. All command wiring lives in
// the cmd package; this file only hands control to it.

package main

import (
	"github.com/Gabrielcarvfer/ns-3-dev-sub002/cmd"
)

func main() {
	cmd.Execute()
}
