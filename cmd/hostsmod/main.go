package main

import (
	"log"
)

var (
	sha1ver   = "dev"
	buildTime = "unknown"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("hostsmod: ")

	execute()
}
