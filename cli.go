//go:build cli
// +build cli

package main

import (
	_ "malldepot/custom"

	"malldepot/cmd"
	"malldepot/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
