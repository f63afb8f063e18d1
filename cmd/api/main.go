package main

import (
	"os"

	"github.com/xpanvictor/voxrelay/internal/cli"
)

// @title voxrelay API
// @version 1.0
// @description Per-device voice turns: speech in, synthesized reply out, with bounded history and a per-session reply cache.
// @BasePath /
func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
