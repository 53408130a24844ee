package main

import "github.com/timvw/babel-tmux/cmd"

func main() {
	cmd.Execute()
}
