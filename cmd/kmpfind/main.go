package main

import (
	"kmputil/internal/appshell"
	"kmputil/internal/cli"
)

func main() {
	appshell.Main(cli.Execute)
}
