package main

import "github.com/enterstudio/botimport/cmd"

func main() {
	cmd.Execute()
}
