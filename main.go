// main is the entry point for the codeyear CLI.
package main

import (
	"github.com/codeyear/codeyear/cmd"
	"github.com/codeyear/codeyear/internal/contract"
	"github.com/codeyear/codeyear/internal/iocache"
)

func main() {
	defer iocache.CloseStores()

	err := cmd.Execute()

	// Stop profiling before handling any command error so profiles
	// are flushed even on failure.
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Failed to stop profiling", perr)
	}

	if err != nil {
		// LogFatal exits, so the deferred close never runs on this path.
		iocache.CloseStores()
		contract.LogFatal("Command failed", err)
	}
}
