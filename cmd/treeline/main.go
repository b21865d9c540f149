package main

import "github.com/treeline-dev/treeline/internal/cli"

func main() {
	cli.Execute()
}
