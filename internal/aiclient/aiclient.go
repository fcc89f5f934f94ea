package aiclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protojson"
)

// AIClient probes the AI scoring service over the standard gRPC health protocol.
type AIClient struct {
	addr   string
	conn   *grpc.ClientConn // closed by Close
	health healthpb.HealthClient
	logger logrus.FieldLogger
}

// HealthReport is the probe result rendered for the gateway's health endpoint.
type HealthReport struct {
	Address  string          `json:"address"`
	Serving  bool            `json:"serving"`
	Response json.RawMessage `json:"response,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// NewAIClient creates a client for the AI service at serverAddr. The connection
// is established lazily on the first call.
func NewAIClient(serverAddr string, logger logrus.FieldLogger) (*AIClient, error) {
	logger = logger.WithField("ai_service", serverAddr)
	logger.Info("Creating AI service gRPC client")

	conn, err := grpc.NewClient(serverAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC client for %s: %w", serverAddr, err)
	}

	return &AIClient{
		addr:   serverAddr,
		conn:   conn,
		health: healthpb.NewHealthClient(conn),
		logger: logger,
	}, nil
}

// Address returns the configured server address.
func (c *AIClient) Address() string {
	return c.addr
}

// Check runs one health check for the whole server.
func (c *AIClient) Check(ctx context.Context) (*healthpb.HealthCheckResponse, error) {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		c.logger.WithError(err).Warn("AI service health check failed")
		return nil, err
	}
	return resp, nil
}

// Report runs a health check and renders it. Errors are part of the report.
func (c *AIClient) Report(ctx context.Context) HealthReport {
	report := HealthReport{Address: c.addr}

	resp, err := c.Check(ctx)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	report.Serving = resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
	rendered, err := protojson.Marshal(resp)
	if err != nil {
		report.Error = fmt.Sprintf("failed to render health response: %v", err)
		return report
	}
	report.Response = rendered
	return report
}

// Close closes the gRPC connection to the AI service.
func (c *AIClient) Close() error {
	if c.conn != nil {
		c.logger.Info("Closing connection to AI gRPC server")
		return c.conn.Close()
	}
	return nil
}
