package main

import "github.com/parsinator/parsinator/cmd"

func main() {
	cmd.Execute()
}
