package main

import "github.com/nfrund/attendance/cmd/attendance-cli/cmd"

func main() {
	cmd.Execute()
}
