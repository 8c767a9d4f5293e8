package main

import "github.com/chazu/faceplate/cmd"

func main() {
	cmd.Execute()
}
