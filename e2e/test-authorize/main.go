package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <jwt-token> [method-arn] [server-addr]", os.Args[0])
	}

	jwtToken := os.Args[1]

	methodARN := ""
	if len(os.Args) > 2 {
		methodARN = os.Args[2]
	}

	serverAddr := "http://localhost:8080"
	if len(os.Args) > 3 {
		serverAddr = "http://localhost" + os.Args[3]
	}

	req, err := http.NewRequest("GET", serverAddr+"/authorize/check", nil)
	if err != nil {
		log.Fatalf("Failed to create request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+jwtToken)
	if methodARN != "" {
		req.Header.Set("X-Method-Arn", methodARN)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Failed to read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("❌ Authorization DENIED\n")
		fmt.Printf("Status: %d\n", resp.StatusCode)
		fmt.Printf("Body: %s\n", string(body))
		return
	}

	fmt.Println("✅ Authorization ALLOWED")

	var decision struct {
		PrincipalID    string `json:"principalId"`
		PolicyDocument struct {
			Statement []struct {
				Effect   string `json:"Effect"`
				Resource string `json:"Resource"`
			} `json:"Statement"`
		} `json:"policyDocument"`
		Context map[string]any `json:"context"`
	}
	if err := json.Unmarshal(body, &decision); err != nil {
		log.Fatalf("Failed to decode decision: %v", err)
	}

	fmt.Printf("\n📋 Decision:\n")
	fmt.Printf("   Principal: %s\n", decision.PrincipalID)
	for _, stmt := range decision.PolicyDocument.Statement {
		fmt.Printf("   %s on %s\n", stmt.Effect, stmt.Resource)
	}

	if len(decision.Context) > 0 {
		fmt.Printf("\n   Context:\n")
		for k, v := range decision.Context {
			fmt.Printf("     %s: %v\n", k, v)
		}
	}
}
