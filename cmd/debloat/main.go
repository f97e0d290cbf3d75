package main

import "debloat/internal/cli"

func main() {
	cli.Execute()
}
