package main

import "llmprep/internal/cli"

func main() {
	cli.Execute()
}
