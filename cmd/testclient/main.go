package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"

	"ai-language-tutor-service/internal/models"
)

// defaultScript walks a new user through onboarding into one conversation turn.
var defaultScript = []string{"/start", "German", "A2", "Hallo! Ich heiße Anna."}

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "HTTP server base URL")
	grpcAddr := flag.String("grpc", "localhost:50051", "gRPC health address, empty to skip")
	userID := flag.String("user", "test-"+time.Now().Format("150405"), "User ID")
	locale := flag.String("locale", "en", "Native locale hint")
	flag.Parse()

	if *grpcAddr != "" {
		checkHealth(*grpcAddr)
	}

	script := flag.Args()
	if len(script) == 0 {
		script = defaultScript
	}

	client := &http.Client{Timeout: 90 * time.Second}
	for _, text := range script {
		log.Printf("> %s", text)
		out, err := send(client, *serverURL, models.InboundEvent{
			UserID:     *userID,
			LocaleHint: *locale,
			Kind:       models.InboundText,
			Text:       text,
		})
		if err != nil {
			log.Fatalf("Failed to send event: %v", err)
		}
		for _, m := range out {
			printMessage(m)
		}
	}
}

func checkHealth(addr string) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	if err != nil {
		log.Fatalf("Health check failed: %v", err)
	}
	log.Printf("Health: %s", resp.GetStatus())
}

func send(client *http.Client, baseURL string, ev models.InboundEvent) ([]models.OutboundMessage, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	resp, err := client.Post(baseURL+"/v1/events", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, e.Error)
	}

	var decoded struct {
		Messages []models.OutboundMessage `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	return decoded.Messages, nil
}

func printMessage(m models.OutboundMessage) {
	if m.Text != "" {
		log.Printf("< %s", m.Text)
	}
	if len(m.Choices) > 0 {
		log.Printf("  choices: %v", m.Choices)
	}
	for i, q := range m.Quiz {
		log.Printf("  quiz %d: %s %v (answer %d)", i+1, q.PromptText, q.OptionTexts(), q.CorrectIndex())
	}
	if m.Audio != nil {
		log.Printf("  audio: %d bytes %s", len(m.Audio.Data), m.Audio.MimeType)
	}
}
