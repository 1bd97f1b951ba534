package main

import "github.com/OpenTraceLab/OpenTraceAvatar/cmd/ota/cmd"

func main() {
	cmd.Execute()
}
