package main

import "github.com/theirongolddev/ringchart/cmd"

func main() {
	cmd.Execute()
}
