package main

import "learnrag/internal/cli"

func main() {
	cli.Execute()
}
