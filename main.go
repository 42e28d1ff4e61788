// Package main is the entry point for the mutagen runner CLI.
package main

import "github.com/JiayiXu/mutagen/cmd"

func main() {
	cmd.Execute()
}
