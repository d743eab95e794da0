package main

import "github.com/pfrederiksen/racecard-horses/internal/cli"

func main() {
	cli.Execute()
}
