package main

import (
	"os"

	"github.com/easysched-project/easysched/cmd/easysched/cmd"
	"github.com/easysched-project/easysched/internal/common"
)

func main() {
	common.ConfigureLogging()
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
