package main

import "libraryconsole/cmd/cli/command"

func main() {
	command.Execute()
}
