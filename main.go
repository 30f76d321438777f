package main

import "github.com/bmatsuo/rlisp/cmd"

func main() {
	cmd.Execute()
}
