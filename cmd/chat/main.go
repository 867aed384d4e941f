package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/imkonsowa/restaurants-recommender/models"
	"github.com/imkonsowa/restaurants-recommender/recommender"
)

const defaultBaseURL = "http://localhost:8080/api/recommendations"

var (
	baseURL = defaultBaseURL
	reader  = bufio.NewReader(os.Stdin)
	client  = &http.Client{Timeout: 90 * time.Second}
)

func main() {
	if url := os.Getenv("RECOMMENDER_URL"); url != "" {
		baseURL = strings.TrimSuffix(url, "/")
	}

	fmt.Println("Restaurant recommender. Tell me what you feel like eating.")
	fmt.Println("Commands: /reset clears the conversation, /quit exits.")

	for {
		fmt.Print("\n> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nGoodbye!")
			return
		}
		line = strings.TrimSpace(line)

		switch line {
		case "":
			continue
		case "/quit":
			fmt.Println("Goodbye!")
			return
		case "/reset":
			handleReset()
		default:
			handleMessage(line)
		}
	}
}

func handleMessage(text string) {
	data, _ := json.Marshal(map[string]string{"userPreference": text})

	resp, err := client.Post(baseURL, "application/json", bytes.NewBuffer(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		fmt.Printf("Request failed: %s\n", string(body))
		return
	}

	result, err := recommender.DecodeResponse(resp.Body)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	printResponse(result)
}

func handleReset() {
	resp, err := client.Post(baseURL+"/reset", "text/plain", nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Println(string(body))
}

func printResponse(resp models.RecommendationResponse) {
	if resp.AIExplanation != "" {
		fmt.Println(resp.AIExplanation)
		fmt.Println()
	}

	fmt.Println("=== Recommendations ===")
	fmt.Print(resp.Stringify())
	fmt.Printf("\n(%s)\n", resp.Reasoning)
}
