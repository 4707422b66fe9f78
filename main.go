package main

import "github.com/developerkunal/versioner/cmd"

func main() {
	cmd.Execute()
}
