package main

import "github.com/KaramelBytes/scalecheck/cmd"

func main() {
	cmd.Execute()
}
