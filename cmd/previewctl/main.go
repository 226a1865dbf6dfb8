package main

import "github.com/spatocode/preview/cmd"

func main() {
	cmd.Execute()
}
