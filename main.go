package main

import "github.com/jewlexx/lawyer/cmd"

func main() {
	cmd.Execute()
}
