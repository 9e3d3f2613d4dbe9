package main

import "viewsync/internal/cli"

func main() {
	cli.Execute()
}
