// Package main writes a self-signed development certificate for the store
// server to the "certs" directory.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/atinyakov/GophStore/internal/certgen"
)

func main() {
	dir := flag.String("dir", "certs", "output directory")
	hosts := flag.String("hosts", "localhost,127.0.0.1", "comma-separated DNS names and IPs")
	days := flag.Int("days", 365, "validity in days")
	flag.Parse()

	certPEM, keyPEM, err := certgen.GenerateSelfSigned(parseHosts(*hosts), time.Duration(*days)*24*time.Hour)
	if err != nil {
		log.Fatal(err)
	}
	certPath, keyPath, err := certgen.WriteFiles(*dir, certPEM, keyPEM)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Certificate: %s\nKey: %s\n", certPath, keyPath)
}

// parseHosts splits a comma-separated host list, dropping empty entries.
func parseHosts(s string) []string {
	var hosts []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}
