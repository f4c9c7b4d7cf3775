package main

import "github.com/alexiusacademia/gorcf/cmd"

func main() {
	cmd.Execute()
}
