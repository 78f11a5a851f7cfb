package main

import "datafusion/cmd"

func main() {
	cmd.Execute()
}
