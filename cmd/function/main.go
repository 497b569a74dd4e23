// Command function serves one gateway event per invocation: it reads the
// event JSON from stdin and writes the response JSON to stdout.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/kidpech/xbox_link_demo/internal/config"
	"github.com/kidpech/xbox_link_demo/internal/domain/xbox"
	"github.com/kidpech/xbox_link_demo/internal/infrastructure/auth"
	"github.com/kidpech/xbox_link_demo/internal/infrastructure/logging"
	"github.com/kidpech/xbox_link_demo/pkg/response"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	// stdout carries the response, so logs go to stderr only.
	logger, err := logging.New(cfg.App.Env, cfg.Diagnostics.EnableDebugLogs, "stderr")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.Sync(logger)

	service := xbox.NewService(auth.NewXboxLiveProvider(cfg.Xbox.ClientID), xbox.NewClockIDs(nil), cfg.Xbox.DefaultRedirectURI)
	dispatcher := xbox.NewDispatcher(service, logger.Named("xbox"), xbox.DispatcherOptions{StrictActions: cfg.Xbox.StrictActions})

	if err := run(os.Stdin, os.Stdout, dispatcher); err != nil {
		fmt.Fprintf(os.Stderr, "function: %v\n", err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer, dispatcher *xbox.Dispatcher) error {
	var resp xbox.Response
	var event xbox.Request
	if err := json.NewDecoder(io.LimitReader(in, xbox.MaxBodyBytes*2)).Decode(&event); err != nil {
		body, _ := response.EncodeJSON(xbox.ErrorBody{Error: "Invalid event"})
		resp = xbox.Response{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json", "Access-Control-Allow-Origin": "*"},
			Body:       body,
		}
	} else {
		resp = dispatcher.Handle(event)
	}
	encoded, err := response.EncodeJSON(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	_, err = fmt.Fprintln(out, encoded)
	return err
}
