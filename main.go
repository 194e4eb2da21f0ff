package main

import "github.com/notargets/gomom/cmd"

func main() {
	cmd.Execute()
}
