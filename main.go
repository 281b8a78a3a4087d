package main

import "github.com/sunhaibo2004/SOLL/cmd"

func main() {
	cmd.Execute()
}
