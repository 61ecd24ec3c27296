package main

import "ecosniper/cmd"

func main() {
	cmd.Execute()
}
