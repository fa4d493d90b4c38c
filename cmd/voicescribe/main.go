package main

import (
	"voicescribe/cmd/voicescribe/cmd"
)

func main() {
	cmd.Execute()
}
