// main is the entry point for the changetree CLI.
package main

import (
	"github.com/huangsam/changetree/cmd"
	"github.com/huangsam/changetree/internal/contract"
	"github.com/huangsam/changetree/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	err := cmd.Execute()
	iocache.CloseCaching()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Cannot stop profiling", stopErr)
	}
	if err != nil {
		contract.LogFatal("Cannot run changetree", err)
	}
}
