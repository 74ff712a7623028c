package main

import "github.com/gauntlet-dev/gauntlet/cmd"

func main() {
	cmd.Execute()
}
