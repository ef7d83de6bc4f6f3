package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"joyful_time/internal/client"
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8080", "site base URL")
		name    = flag.String("name", "", "sender name")
		email   = flag.String("email", "", "sender email")
		message = flag.String("message", "", "message text")
		timeout = flag.Duration("timeout", 30*time.Second, "request timeout")
	)
	flag.Parse()

	os.Exit(run(*baseURL, *name, *email, *message, *timeout))
}

func run(baseURL, name, email, message string, timeout time.Duration) int {
	form := client.New(baseURL, &http.Client{Timeout: timeout})
	form.SetName(name)
	form.SetEmail(email)
	form.SetMessage(message)

	if err := form.Submit(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, form.Status().Error)
		return 1
	}

	fmt.Println(form.Status().Success)

	return 0
}
