package main

import "github.com/maltedev/place-archiver/cmd/place-archiver/commands"

func main() {
	commands.Execute()
}
