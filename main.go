package main

import "github.com/hyamamo/issue-trends/cmd"

func main() {
	cmd.Execute()
}
