package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/immodash/immodash/pkg/ai"
	"github.com/immodash/immodash/pkg/app"
	"github.com/immodash/immodash/pkg/prospection"
	"github.com/immodash/immodash/pkg/storage"
)

func main() {
	// Usage: go run *.go -key "your_gemini_key" -message "[ADD] 12 rue Foch boitage"
	// Without -key the message is skipped and a sample entry is logged offline.

	keyFlag := flag.String("key", "", "Gemini API key")
	messageFlag := flag.String("message", "[ADD] 12 rue Foch boitage", "Free-text prospecting message")

	// Parse the command-line flags
	flag.Parse()

	ctx := context.Background()
	gateway, err := ai.NewGateway(ctx, ai.Config{APIKey: *keyFlag})
	if err != nil {
		fmt.Println(err)
		return
	}

	// An in-memory store keeps the example side-effect free; storage.Open gives the SQLite one.
	ctrl := app.New(storage.NewMemStore(), gateway)
	if err := ctrl.Load(ctx); err != nil {
		fmt.Println(err)
		return
	}

	if *keyFlag != "" {
		if _, err := ctrl.Prospect(ctx, *messageFlag); err != nil {
			fmt.Println(ai.UserMessage(err))
			return
		}
	} else {
		_, err := ctrl.ApplyIntent(ctx, prospection.Intent{
			Kind: prospection.IntentLog,
			Data: prospection.LogData{Zone: "12 Rue Foch", Type: "boitage", Date: time.Now().Format("2006-01-02")},
		})
		if err != nil {
			fmt.Println(err)
			return
		}
	}

	for _, month := range prospection.Group(ctrl.Snapshot().Prospection) {
		fmt.Printf("%s (%d)\n", month.Label, month.Count())
		for _, t := range prospection.ActionTypes {
			for _, e := range month.Buckets[t] {
				fmt.Println("  ", t, e.Date, e.Zone)
			}
		}
	}
}
