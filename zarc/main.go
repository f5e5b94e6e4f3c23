package main

import "github.com/indrora/zar/zarc/cmd"

func main() {
	cmd.Execute()
}
