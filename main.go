package main

import "work-tracker.com/work-tracker/cmd"

func main() {
	cmd.Execute()
}
