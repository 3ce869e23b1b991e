package main

import "github.com/fourscore/scoresv/cmd"

func main() {
	cmd.Execute()
}
