package main

import "github.com/rohmanhakim/ravencrawl/internal/cli"

func main() {
	cli.Execute()
}
