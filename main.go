package main

import "readmeai/cli"

func main() {
	cli.Execute()
}
