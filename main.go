package main

import "heatload/cmd"

func main() {
	cmd.Execute()
}
