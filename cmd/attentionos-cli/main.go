package main

import "attentionos/cmd/attentionos-cli/cmd"

func main() {
	cmd.Execute()
}
