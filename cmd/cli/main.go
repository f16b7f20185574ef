package main

import "github.com/corvid-systems/x64codec/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
