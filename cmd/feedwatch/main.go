// Command feedwatch tails the gateway's change feed over WebSocket and
// prints each committed row change. Useful for debugging realtime sync.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"framez/internal/realtime"

	"github.com/gorilla/websocket"
)

func main() {
	host := flag.String("host", "localhost:8480", "Gateway host")
	email := flag.String("email", "", "Account email")
	password := flag.String("password", "", "Account password")
	token := flag.String("token", "", "Use an existing token instead of logging in")
	flag.Parse()

	authToken := *token
	if authToken == "" {
		if *email == "" || *password == "" {
			log.Fatal("Pass -token, or -email and -password")
		}
		t, err := login(*host, *email, *password)
		if err != nil {
			log.Fatalf("Login failed: %v", err)
		}
		authToken = t
	}

	u := url.URL{Scheme: "ws", Host: *host, Path: "/api/ws", RawQuery: "token=" + url.QueryEscape(authToken)}
	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("WebSocket dial failed: %v", err)
	}
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	defer func() { _ = conn.Close() }()

	log.Printf("Connected to %s, watching for changes...", *host)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				log.Printf("Read failed: %v", err)
				return
			}
			var ev realtime.ChangeEvent
			if err := json.Unmarshal(raw, &ev); err != nil {
				log.Printf("Skipping malformed event: %v", err)
				continue
			}
			fmt.Printf("%s  %-7s %-8s post=%d row=%d\n",
				time.Now().Format("15:04:05"), ev.Action, ev.Relation, ev.PostID, ev.RowID)
		}
	}()

	select {
	case <-interrupt:
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	case <-done:
	}
}

func login(host, email, password string) (string, error) {
	loginURL := fmt.Sprintf("http://%s/api/auth/login", host)
	payload, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})

	resp, err := http.Post(loginURL, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Token, nil
}
