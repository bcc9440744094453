package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"
)

// Usage example on the command line:
// > go run ./cmd/wait-until-available -url=http://localhost:8080/
func main() {
	urlPtr := flag.String("url", "http://localhost:8080/", "the page that has to answer with 200")
	intervalPtr := flag.Duration("interval", 5*time.Second, "the time between two attempts")
	flag.Parse()

	var totalWaitTime time.Duration
	for {
		res, err := http.Get(*urlPtr)
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				fmt.Println(res.Status)
				break
			}
			fmt.Println(res.Status)
		} else {
			fmt.Println(err)
		}
		totalWaitTime += *intervalPtr
		fmt.Printf("Waiting %s\n", totalWaitTime)
		time.Sleep(*intervalPtr)
	}
}
