package main

import "github.com/KaramelBytes/summarizer-cli/cmd"

func main() {
	cmd.Execute()
}
