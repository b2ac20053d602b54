package main

import "staffinvoice/internal/cli"

func main() {
	cli.Execute()
}
