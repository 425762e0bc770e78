package grpc_control

import (
	"context"
	"encoding/json"
	"strings"

	"plug-explorer/src/home"
	"plug-explorer/src/i18n"
	"plug-explorer/src/logger"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ControlService implements ExplorerControlServer over the shared home page
type ControlService struct {
	UnimplementedExplorerControlServer
	Page     *home.Page
	Language func() string
	Logger   *logger.Logger
}

// NewControlService creates a new instance of ControlService. language reports the
// active locale and may be nil.
func NewControlService(page *home.Page, language func() string, log *logger.Logger) *ControlService {
	return &ControlService{
		Page:     page,
		Language: language,
		Logger:   log,
	}
}

// -----------------------------------------------------------------------------

func (s *ControlService) GetSnapshot(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	data, err := json.Marshal(s.Page.Snapshot())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode snapshot: %v", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, status.Errorf(codes.Internal, "encode snapshot: %v", err)
	}

	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode snapshot: %v", err)
	}
	return out, nil
}

// -----------------------------------------------------------------------------

func (s *ControlService) GetStatus(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	fields := s.Page.Status()
	fields["language"] = s.currentLanguage()

	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode status: %v", err)
	}
	return out, nil
}

// -----------------------------------------------------------------------------

// Translate resolves "key" in the active locale or "locale:key" in the given one.
func (s *ControlService) Translate(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	value := strings.TrimSpace(req.GetValue())
	if value == "" {
		return nil, status.Error(codes.InvalidArgument, "key is required")
	}

	locale, key := s.currentLanguage(), value
	if i := strings.IndexByte(value, ':'); i >= 0 {
		locale, key = value[:i], value[i+1:]
		if !i18n.Supported(locale) {
			return nil, status.Errorf(codes.InvalidArgument, "unsupported language: %s", locale)
		}
	}

	s.Logger.Debug("gRPC: Translate %s in %s", key, locale)
	return wrapperspb.String(i18n.Lookup(locale, key)), nil
}

// -----------------------------------------------------------------------------

func (s *ControlService) currentLanguage() string {
	if s.Language == nil {
		return i18n.ZhCN
	}
	return s.Language()
}
