package main

import "passvault/cmd/client/cmd"

func main() {
	cmd.Execute()
}
