package main

import "doc-agent/internal/cli"

func main() {
	cli.Execute()
}
