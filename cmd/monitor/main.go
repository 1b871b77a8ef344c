package main

import "monitor-insights-go/internal/cli"

func main() {
	cli.Execute()
}
