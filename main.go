package main

import "github.com/code-sleuth/vecbridge-go/cmd"

func main() {
	cmd.Execute()
}
