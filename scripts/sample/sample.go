package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

const baseURL = "http://localhost:8080/api"

type User struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Plan struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	InterestRate string `json:"interest_rate"`
	MinAmount    string `json:"min_amount"`
	MaxAmount    string `json:"max_amount"`
}

func main() {
	user := createUser("Sample Investor", "sample@example.com", "+15550100")
	fmt.Printf("Created user %d\n", user.ID)

	credit(user.ID, "BITCOIN", "0.5", "seed deposit")
	credit(user.ID, "ETHEREUM", "4", "seed deposit")
	credit(user.ID, "USDT", "2500", "seed deposit")
	fmt.Println("Credited seed balances")

	plan := createPlan(Plan{
		Name:         "Gold",
		InterestRate: "36.5",
		MinAmount:    "1000",
		MaxAmount:    "1000000",
	})
	fmt.Printf("Created plan %d (%s%% annual)\n", plan.ID, plan.InterestRate)

	post("/subscriptions", map[string]any{
		"user_id": user.ID,
		"plan_id": plan.ID,
		"amount":  "10000",
	})
	fmt.Println("Subscribed user to plan")

	post("/withdrawals", map[string]any{
		"user_id": user.ID,
		"asset":   "USDT",
		"amount":  "500",
		"address": "TSampleAddress000000000000000000000",
	})
	fmt.Println("Submitted a pending withdrawal")

	fmt.Println("Sample data created successfully!")
}

func createUser(name, email, phone string) User {
	resp := post("/users", map[string]any{
		"name":  name,
		"email": email,
		"phone": phone,
	})
	defer resp.Body.Close()

	var created User
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		log.Fatalf("Failed to decode user response: %v", err)
	}
	return created
}

func createPlan(plan Plan) Plan {
	resp := post("/plans", plan)
	defer resp.Body.Close()

	var created Plan
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		log.Fatalf("Failed to decode plan response: %v", err)
	}
	return created
}

func credit(userID uint, asset, amount, reason string) {
	resp := post(fmt.Sprintf("/users/%d/credit", userID), map[string]any{
		"asset":  asset,
		"amount": amount,
		"reason": reason,
	})
	resp.Body.Close()
}

func post(path string, payload any) *http.Response {
	body, _ := json.Marshal(payload)

	resp, err := http.Post(baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("Failed to POST %s: %v", path, err)
	}
	if resp.StatusCode != http.StatusCreated {
		log.Fatalf("Failed to POST %s: status %d", path, resp.StatusCode)
	}
	return resp
}
