package main

import "github.com/TheJazzDev/orits-fashion/cmd/orits/commands"

func main() {
	commands.Execute()
}
