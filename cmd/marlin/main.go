package main

import "github.com/marlin-vision/marlin/cmd/marlin/cmd"

func main() {
	cmd.Execute()
}
