// Command wpauth walks through the one-time WordPress.com OAuth2 code flow:
// it prints the authorization URL, waits for the redirect on a local
// listener, exchanges the code, and prints the access token to store in .env.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"AIMLWeekly/internal/config"
	"AIMLWeekly/internal/httpx"
	"AIMLWeekly/internal/infrastructure/wordpress"
	"AIMLWeekly/internal/logging"
)

const listenAddr = ":8000"

func main() {
	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	if cfg.WordPress.ClientID == "" || cfg.WordPress.ClientSecret == "" {
		logger.Error("WORDPRESS_CLIENT_ID and WORDPRESS_CLIENT_SECRET must be set")
		os.Exit(1)
	}

	fmt.Println("Open the following WordPress authorization URL in your browser and approve the app:")
	fmt.Println(wordpress.AuthorizeURL(cfg.WordPress))
	fmt.Printf("Waiting for the authorization redirect on %s...\n", listenAddr)

	codeCh := make(chan string, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, "<html><body><h1>Error: no code found in URL.</h1></body></html>")
			return
		}
		fmt.Fprint(w, "<html><body><h1>Authorization successful!</h1><p>You can close this window.</p></body></html>")
		select {
		case codeCh <- code:
		default:
		}
	})

	server := &http.Server{Addr: listenAddr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("callback listener failed", "error", err)
			os.Exit(1)
		}
	}()

	code := <-codeCh

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)

	token, err := wordpress.ExchangeToken(ctx, httpx.New(nil), cfg.WordPress, code)
	if err != nil {
		logger.Error("token exchange failed", "error", err)
		os.Exit(1)
	}

	fmt.Println("Add this to your .env file:")
	fmt.Println("WORDPRESS_ACCESS_TOKEN=" + token)
}
