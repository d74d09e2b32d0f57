package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

var corsHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type,X-Amz-Date,Authorization,X-Api-Key",
	"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
}

type response struct {
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	Environment string `json:"environment"`
	Project     string `json:"project"`
	Method      string `json:"method,omitempty"`
	Path        string `json:"path,omitempty"`
	Data        any    `json:"received_data,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
}

func getenv(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}

func respond(status int, body any) (events.APIGatewayProxyResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: 500,
			Headers:    corsHeaders,
			Body:       `{"status":"error","message":"failed to encode response"}`,
		}, nil
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    corsHeaders,
		Body:       string(data),
	}, nil
}

func handle(_ context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	environment := getenv("ENVIRONMENT", "unknown")
	project := getenv("PROJECT", "unknown")
	switch request.HTTPMethod {
	case "GET":
		return respond(200, response{
			Status:      "success",
			Message:     "backend is running",
			Environment: environment,
			Project:     project,
			Method:      request.HTTPMethod,
			Path:        request.Path,
			Timestamp:   request.RequestContext.RequestID,
		})
	case "POST":
		var data map[string]any
		if err := json.Unmarshal([]byte(request.Body), &data); err != nil {
			data = map[string]any{}
		}
		return respond(200, response{
			Status:      "success",
			Message:     "POST request received",
			Environment: environment,
			Project:     project,
			Data:        data,
			Timestamp:   request.RequestContext.RequestID,
		})
	default:
		return respond(405, response{
			Status:      "error",
			Message:     fmt.Sprintf("method %s not supported", request.HTTPMethod),
			Environment: environment,
			Project:     project,
		})
	}
}

func main() {
	lambda.Start(handle)
}
