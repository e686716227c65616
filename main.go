package main

import "taptick/cmd"

func main() {
	cmd.Execute()
}
