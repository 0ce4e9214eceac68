package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"vector-pai/infrastructure/config"
	"vector-pai/infrastructure/di"
)

var (
	// chiLambda wraps the Chi router for API Gateway REST proxy events
	chiLambda *chiadapter.ChiLambda

	container *di.Container

	coldStart     = true
	coldStartTime time.Time
)

// init runs during cold start
func init() {
	coldStartTime = time.Now()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err = di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	chiRouter, ok := container.Router.Setup().(*chi.Mux)
	if !ok {
		log.Fatal("Failed to cast handler to chi.Mux")
	}
	chiLambda = chiadapter.New(chiRouter)

	container.Logger.Info("Lambda cold start completed",
		zap.Duration("duration", time.Since(coldStartTime)),
		zap.String("table", cfg.DynamoDBTable),
	)
}

// Handler is the Lambda function handler
func Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	// Carry the gateway request id into the router so logs and envelopes share it
	if req.RequestContext.RequestID != "" {
		if req.Headers == nil {
			req.Headers = make(map[string]string)
		}
		if _, ok := req.Headers["X-Request-ID"]; !ok {
			req.Headers["X-Request-ID"] = req.RequestContext.RequestID
		}
	}

	resp, err := chiLambda.ProxyWithContext(ctx, req)
	if err != nil {
		container.Logger.Error("Proxy failed",
			zap.String("path", req.Path),
			zap.String("method", req.HTTPMethod),
			zap.Error(err),
		)
		return resp, err
	}

	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}
	if req.RequestContext.RequestID != "" {
		resp.Headers["X-Request-ID"] = req.RequestContext.RequestID
	}
	if coldStart {
		resp.Headers["X-Cold-Start"] = "true"
		coldStart = false
	}

	container.Logger.Info("Lambda response",
		zap.String("method", req.HTTPMethod),
		zap.String("path", req.Path),
		zap.String("request_id", req.RequestContext.RequestID),
		zap.String("stage", req.RequestContext.Stage),
		zap.Int("status_code", resp.StatusCode),
	)

	return resp, nil
}

func main() {
	lambda.Start(Handler)
}
