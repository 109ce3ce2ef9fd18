package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

const baseURL = "http://localhost:8080"

type credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func main() {
	creds := credentials{
		Name:     "Load Tester",
		Email:    fmt.Sprintf("load-%d@example.com", time.Now().UnixNano()),
		Password: "secret123",
	}

	resp, err := post("/auth/register", "", creds)
	if err != nil {
		fmt.Println("Ошибка регистрации:", err)
		return
	}
	resp.Body.Close()

	resp, err = post("/auth/login", "", credentials{Email: creds.Email, Password: creds.Password})
	if err != nil {
		fmt.Println("Ошибка входа:", err)
		return
	}
	var login loginResponse
	err = json.NewDecoder(resp.Body).Decode(&login)
	resp.Body.Close()
	if err != nil {
		fmt.Println("Ошибка входа:", err)
		return
	}

	for {
		var wg sync.WaitGroup
		for range rand.Intn(10) {
			wg.Go(func() { doRequest(login.Token) })
		}
		wg.Wait()
		time.Sleep(20 * time.Millisecond)
	}
}

func doRequest(token string) {
	switch rand.Intn(4) {
	case 0:
		order := map[string]any{
			"items": []map[string]any{
				{"productId": 1, "title": "Headphones", "unitPrice": 59.99, "quantity": rand.Intn(3) + 1, "category": "Electronics"},
			},
			"shipping": map[string]string{
				"fullName": "John Doe", "phone": "+15550000000", "address": "1 Main St",
				"city": "Springfield", "postalCode": "12345",
			},
			"paymentMethod": "card",
		}
		report(post("/orders", token, order))
	case 1:
		report(get("/orders", token))
		report(get("/orders/me", token))
	default:
		report(get("/analytics/overview", token))
	}
}

func post(path, token string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return send(req, token)
}

func get(path, token string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return send(req, token)
}

func send(req *http.Request, token string) (*http.Response, error) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("%s %s -> %s", req.Method, req.URL.Path, resp.Status)
	}
	return resp, nil
}

func report(resp *http.Response, err error) {
	if err != nil {
		fmt.Println("Ошибка запроса:", err)
		return
	}
	fmt.Println(resp.Request.Method, resp.Request.URL.Path, "->", resp.Status)
	resp.Body.Close()
}
