package main

import "github.com/askloop/forum/cmd"

func main() {
	cmd.Execute()
}
