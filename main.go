package main

import "github.com/redactyl/ddscan/cmd/ddscan"

func main() {
	ddscan.Execute()
}
