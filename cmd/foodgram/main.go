package main

import "foodgram/cmd/foodgram/commands"

func main() {
	commands.Execute()
}
