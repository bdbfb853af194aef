package main

import "github.com/Pjt727/bookcs/cmd"

func main() {
	cmd.Execute()
}
