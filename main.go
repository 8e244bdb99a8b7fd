package main

import "github.com/amehdaoui/coursepipe/cmd"

func main() {
	cmd.Execute()
}
