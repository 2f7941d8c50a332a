package main

import "github.com/OpenTraceLab/zuse/cmd/zuse/cmd"

func main() {
	cmd.Execute()
}
