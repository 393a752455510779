package main

import "github.com/wayscriber/wayscriber/cmd"

func main() {
	cmd.Execute()
}
