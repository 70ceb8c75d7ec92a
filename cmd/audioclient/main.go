package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ai-language-tutor-service/internal/models"
)

func main() {
	audioFile := flag.String("audio", "../../testdata/sample.ogg", "Path to a voice note (ogg, mp3, wav, m4a)")
	serverURL := flag.String("server", "http://localhost:8080", "HTTP server base URL")
	userID := flag.String("user", "", "User ID of an onboarded session")
	outFile := flag.String("out", "reply.mp3", "Where to write a spoken reply")
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user is required; onboard the user first with testclient")
	}

	audio, err := os.ReadFile(*audioFile)
	if err != nil {
		log.Fatalf("Failed to read audio file: %v", err)
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(*audioFile)), ".")
	if len(audio) >= 12 && string(audio[0:4]) == "RIFF" && string(audio[8:12]) == "WAVE" {
		format = "wav"
	}
	log.Printf("Sending %d bytes of %s audio", len(audio), format)

	body, err := json.Marshal(models.InboundEvent{
		UserID: *userID,
		Kind:   models.InboundVoice,
		Voice:  &models.Voice{Audio: audio, Format: format},
	})
	if err != nil {
		log.Fatalf("Failed to encode event: %v", err)
	}

	client := &http.Client{Timeout: 120 * time.Second}
	start := time.Now()
	resp, err := client.Post(*serverURL+"/v1/events", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("Failed to send event: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Server returned status %d", resp.StatusCode)
	}

	var decoded struct {
		Messages []models.OutboundMessage `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		log.Fatalf("Failed to decode response: %v", err)
	}
	log.Printf("Turn took %s", time.Since(start).Round(time.Millisecond))

	for _, m := range decoded.Messages {
		if m.Text != "" {
			fmt.Println(m.Text)
		}
		if m.Audio != nil {
			if err := os.WriteFile(*outFile, m.Audio.Data, 0o644); err != nil {
				log.Fatalf("Failed to write audio reply: %v", err)
			}
			log.Printf("Wrote %d bytes of %s to %s", len(m.Audio.Data), m.Audio.MimeType, *outFile)
		}
	}
}
