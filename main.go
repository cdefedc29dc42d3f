package main

import "access-log-backend/internal/cli"

func main() {
	cli.Execute()
}
