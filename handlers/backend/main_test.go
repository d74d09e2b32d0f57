package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-lambda-go/events"
)

func request(method, body string) events.APIGatewayProxyRequest {
	req := events.APIGatewayProxyRequest{
		HTTPMethod: method,
		Path:       "/",
		Body:       body,
	}
	req.RequestContext.RequestID = "test-request-id"
	return req
}

func TestGet(t *testing.T) {
	t.Setenv("ENVIRONMENT", "dev")
	t.Setenv("PROJECT", "shooter")
	out, err := handle(context.Background(), request("GET", ""))
	if err != nil {
		t.Fatal(err)
	}
	if out.StatusCode != 200 {
		t.Fatalf("status %d", out.StatusCode)
	}
	var body response
	err = json.Unmarshal([]byte(out.Body), &body)
	if err != nil {
		t.Fatal(err)
	}
	if body.Status != "success" {
		t.Fatalf("status %s", body.Status)
	}
	if body.Environment != "dev" || body.Project != "shooter" {
		t.Fatalf("env %s project %s", body.Environment, body.Project)
	}
	if body.Timestamp != "test-request-id" {
		t.Fatalf("timestamp %s", body.Timestamp)
	}
}

func TestPostEchoesData(t *testing.T) {
	out, err := handle(context.Background(), request("POST", `{"map":"arena","players":4}`))
	if err != nil {
		t.Fatal(err)
	}
	if out.StatusCode != 200 {
		t.Fatalf("status %d", out.StatusCode)
	}
	var body response
	err = json.Unmarshal([]byte(out.Body), &body)
	if err != nil {
		t.Fatal(err)
	}
	data, ok := body.Data.(map[string]any)
	if !ok {
		t.Fatalf("data %#v", body.Data)
	}
	if data["map"] != "arena" {
		t.Fatalf("map %v", data["map"])
	}
}

func TestPostBadJson(t *testing.T) {
	out, err := handle(context.Background(), request("POST", "not json"))
	if err != nil {
		t.Fatal(err)
	}
	if out.StatusCode != 200 {
		t.Fatalf("status %d", out.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	out, err := handle(context.Background(), request("DELETE", ""))
	if err != nil {
		t.Fatal(err)
	}
	if out.StatusCode != 405 {
		t.Fatalf("status %d", out.StatusCode)
	}
}

func TestCorsHeaders(t *testing.T) {
	out, err := handle(context.Background(), request("GET", ""))
	if err != nil {
		t.Fatal(err)
	}
	if out.Headers["Access-Control-Allow-Origin"] != "*" {
		t.Fatalf("headers %v", out.Headers)
	}
}
