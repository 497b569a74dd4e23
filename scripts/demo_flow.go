package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

type httpError struct {
	StatusCode int
	body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.body)
}

func main() {
	baseURL := flag.String("base-url", "http://localhost:8080", "API base URL")
	friend := flag.String("friend", "Steve", "friend name to link")
	flag.Parse()

	endpoint := *baseURL + "/api/v1/xbox-auth"
	client := &http.Client{Timeout: 10 * time.Second}

	var auth struct {
		AuthURL string `json:"auth_url"`
	}
	if err := postAction(client, endpoint, map[string]string{"action": "get_auth_url"}, &auth); err != nil {
		log.Fatalf("get auth url: %v", err)
	}
	log.Printf("sign in at %s", auth.AuthURL)

	var linked struct {
		Gamertag string `json:"gamertag"`
		XUID     string `json:"xuid"`
	}
	if err := postAction(client, endpoint, map[string]string{"action": "connect_friend", "friend_id": "42", "friend_name": *friend}, &linked); err != nil {
		log.Fatalf("connect friend: %v", err)
	}
	log.Printf("linked %s (%s)", linked.Gamertag, linked.XUID)

	var request struct {
		Message string `json:"message"`
		ID      string `json:"friend_request_id"`
	}
	if err := postAction(client, endpoint, map[string]string{"action": "send_friend_request", "gamertag": linked.Gamertag, "player_xuid": linked.XUID}, &request); err != nil {
		log.Fatalf("send friend request: %v", err)
	}
	log.Printf("%s [%s]", request.Message, request.ID)

	var join struct {
		Message string `json:"message"`
		ETA     int    `json:"eta_seconds"`
	}
	if err := postAction(client, endpoint, map[string]string{"action": "join_game", "gamertag": linked.Gamertag, "session_id": "demo_session"}, &join); err != nil {
		log.Fatalf("join game: %v", err)
	}
	log.Printf("%s eta=%ds", join.Message, join.ETA)

	if err := postAction(client, endpoint, map[string]string{"action": "dance"}, nil); err != nil {
		var httpErr *httpError
		if errors.As(err, &httpErr) {
			log.Printf("unknown action rejected with %d", httpErr.StatusCode)
		} else {
			log.Printf("unknown action: %v", err)
		}
	}
}

func postAction(client *http.Client, url string, payload any, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return &httpError{StatusCode: resp.StatusCode, body: string(body)}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}
