package main

import "github.com/ardanpr/expense-report-portal/cmd"

func main() {
	cmd.Execute()
}
