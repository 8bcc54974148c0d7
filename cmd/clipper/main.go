package main

import "github.com/fufufafaethon/clipper/internal/cli"

func main() {
	cli.Main()
}
