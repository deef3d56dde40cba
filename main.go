package main

import "github.com/KaramelBytes/sheetbrief/cmd"

func main() {
	cmd.Execute()
}
