// Package inference talks to the hand landmark / gesture classifier service over gRPC.
//
// The service exposes two unary methods taking and returning
// google.protobuf.Struct messages, plus the standard grpc.health.v1 service:
//
//	/janken.v1.HandInference/DetectHands  {"image": <base64 jpeg>, "max_hands", "min_detection_confidence"}
//	                                      -> {"hands": [{"landmarks": [{"x","y","z"}...], "handedness", "score"}]}
//	/janken.v1.HandInference/Classify     {"angles": [...]} -> {"label": "rock"}
//
// Calls are serialized: the model runtime behind the service is not assumed
// to be safe for concurrent use.
package inference

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"

	"janken-relay-go/internal/models"
)

const (
	ServiceName       = "janken.v1.HandInference"
	methodDetectHands = "/" + ServiceName + "/DetectHands"
	methodClassify    = "/" + ServiceName + "/Classify"
)

// Options tune detection requests and call deadlines.
type Options struct {
	MaxHands               int
	MinDetectionConfidence float64
	CallTimeout            time.Duration
}

type Service struct {
	conn    *grpc.ClientConn
	health  healthpb.HealthClient
	grpcURL string
	opts    Options

	mu        sync.Mutex // serializes model calls
	isHealthy atomic.Bool
}

// NewService creates a client for the inference service at grpcURL. The
// connection is established lazily; use HealthCheck to verify it.
func NewService(grpcURL string, opts Options, dialOpts ...grpc.DialOption) (*Service, error) {
	log.Info().Str("url", grpcURL).Msg("Initializing inference service client")

	if opts.MaxHands <= 0 {
		opts.MaxHands = 1
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 2 * time.Second
	}

	dialOpts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, dialOpts...)
	conn, err := grpc.NewClient(grpcURL, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create inference client: %w", err)
	}

	return &Service{
		conn:    conn,
		health:  healthpb.NewHealthClient(conn),
		grpcURL: grpcURL,
		opts:    opts,
	}, nil
}

// DetectLandmarks sends a compressed image and returns at most MaxHands hands.
func (s *Service) DetectLandmarks(ctx context.Context, jpeg []byte) ([]models.HandLandmarks, error) {
	req, err := structpb.NewStruct(map[string]any{
		"image":                    base64.StdEncoding.EncodeToString(jpeg),
		"max_hands":                s.opts.MaxHands,
		"min_detection_confidence": s.opts.MinDetectionConfidence,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build detect request: %w", err)
	}

	resp, err := s.invoke(ctx, methodDetectHands, req)
	if err != nil {
		return nil, err
	}

	hands, err := parseHands(resp)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("hands", len(hands)).Msg("Detection response")
	return hands, nil
}

// Classify maps an angle vector to a gesture label.
func (s *Service) Classify(ctx context.Context, angles models.AngleVector) (string, error) {
	values := make([]any, len(angles))
	for i, a := range angles {
		values[i] = a
	}
	req, err := structpb.NewStruct(map[string]any{"angles": values})
	if err != nil {
		return "", fmt.Errorf("failed to build classify request: %w", err)
	}

	resp, err := s.invoke(ctx, methodClassify, req)
	if err != nil {
		return "", err
	}

	label, ok := resp.GetFields()["label"]
	if !ok || label.GetStringValue() == "" {
		return "", fmt.Errorf("classify response has no label")
	}
	return label.GetStringValue(), nil
}

func (s *Service) invoke(ctx context.Context, method string, req *structpb.Struct) (*structpb.Struct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	defer cancel()

	resp := &structpb.Struct{}
	if err := s.conn.Invoke(ctx, method, req, resp); err != nil {
		s.isHealthy.Store(false)
		return nil, fmt.Errorf("inference call %s failed: %w", method, err)
	}
	s.isHealthy.Store(true)
	return resp, nil
}

// HealthCheck asks the standard health service whether the inference service is serving.
func (s *Service) HealthCheck(ctx context.Context) error {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		s.isHealthy.Store(false)
		return fmt.Errorf("inference service health check failed: %w", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		s.isHealthy.Store(false)
		return fmt.Errorf("inference service not serving: %s", resp.GetStatus())
	}

	s.isHealthy.Store(true)
	return nil
}

func (s *Service) IsHealthy() bool {
	return s.isHealthy.Load()
}

func (s *Service) Shutdown(ctx context.Context) error {
	if s.conn != nil {
		log.Info().Msg("Shutting down inference service connection")
		return s.conn.Close()
	}
	return nil
}

func parseHands(resp *structpb.Struct) ([]models.HandLandmarks, error) {
	list := resp.GetFields()["hands"].GetListValue().GetValues()
	hands := make([]models.HandLandmarks, 0, len(list))

	for i, v := range list {
		fields := v.GetStructValue().GetFields()
		points := fields["landmarks"].GetListValue().GetValues()
		if len(points) != models.NumLandmarks {
			return nil, fmt.Errorf("hand %d has %d landmarks, want %d", i, len(points), models.NumLandmarks)
		}

		var hand models.HandLandmarks
		for j, p := range points {
			pf := p.GetStructValue().GetFields()
			hand.Points[j] = models.Landmark{
				X: pf["x"].GetNumberValue(),
				Y: pf["y"].GetNumberValue(),
				Z: pf["z"].GetNumberValue(),
			}
		}
		hand.Handedness = fields["handedness"].GetStringValue()
		hand.Score = fields["score"].GetNumberValue()
		hands = append(hands, hand)
	}
	return hands, nil
}
