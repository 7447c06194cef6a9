package main

import "github.com/pfrederiksen/nhl-scores/internal/cli"

func main() {
	cli.Execute()
}
