package main

import "github.com/andrejsstepanovs/projtrack/cmd"

func main() {
	cmd.Execute()
}
