package main

import "github.com/hurou927/db-ddl-gen/cmd"

func main() {
	cmd.Execute()
}
