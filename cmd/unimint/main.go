package main

import "github.com/kurumiimari/unimint/cmd/unimint/cmd"

func main() {
	cmd.Execute()
}
