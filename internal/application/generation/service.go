package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"social-ai-api/internal/domain/entity"
	"social-ai-api/internal/infrastructure/llm"
	"social-ai-api/internal/workflow/parser"
	"social-ai-api/internal/workflow/prompt"
	apperrors "social-ai-api/pkg/errors"
	"social-ai-api/pkg/logger"
	"social-ai-api/pkg/metrics"
	"social-ai-api/pkg/tracer"
)

const (
	defaultVariationCount = 3
	maxVariationCount     = 5
	variationTemperature  = 0.8
)

// Researcher 研究服务，失败时生成流程按无研究处理
type Researcher interface {
	Research(ctx context.Context, topic, additionalContext string) (*entity.ResearchBundle, error)
}

// AdapterFactory 按请求级凭据构造适配器
type AdapterFactory interface {
	New(provider entity.Provider, credential string) (llm.Adapter, error)
}

// ProviderCatalog 提供商展示信息
type ProviderCatalog interface {
	Infos() []entity.ProviderInfo
}

// Service 内容生成服务
type Service struct {
	orchestrator *Orchestrator
	catalog      ProviderCatalog
	researcher   Researcher
	factory      AdapterFactory
	// maxParallel 多平台并发上限，0 表示不限制
	maxParallel int
}

// Option 服务选项
type Option func(*Service)

// WithResearcher 设置研究服务
func WithResearcher(r Researcher) Option {
	return func(s *Service) { s.researcher = r }
}

// WithAdapterFactory 设置请求级凭据工厂
func WithAdapterFactory(f AdapterFactory) Option {
	return func(s *Service) { s.factory = f }
}

// WithMaxParallel 设置多平台并发上限
func WithMaxParallel(n int) Option {
	return func(s *Service) { s.maxParallel = n }
}

// NewService 创建内容生成服务
func NewService(orchestrator *Orchestrator, catalog ProviderCatalog, opts ...Option) *Service {
	s := &Service{
		orchestrator: orchestrator,
		catalog:      catalog,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateInput 多平台生成请求
type GenerateInput struct {
	Topic             string
	Platforms         []entity.Platform
	Provider          entity.Provider
	IncludeResearch   bool
	AdditionalContext string
	Credential        string
}

// Validate 校验请求
func (in GenerateInput) Validate() error {
	if strings.TrimSpace(in.Topic) == "" {
		return apperrors.ErrInvalidParam.WithDetail("topic is required")
	}
	if len(in.Platforms) == 0 {
		return apperrors.ErrInvalidParam.WithDetail("at least one platform is required")
	}
	for _, p := range in.Platforms {
		if !p.Valid() {
			return apperrors.ErrUnsupportedPlatform.WithDetail(string(p))
		}
	}
	return nil
}

// Generate 为每个平台生成内容，结果顺序与输入一致。
// 单个平台失败记录在对应的 PlatformResult 中，不影响其他平台；返回的 error 仅表示请求本身无效。
func (s *Service) Generate(ctx context.Context, in GenerateInput) ([]entity.PlatformResult, *entity.ResearchBundle, error) {
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}

	var research *entity.ResearchBundle
	if in.IncludeResearch {
		research = s.research(ctx, in.Topic, in.AdditionalContext)
	}

	results := make([]entity.PlatformResult, len(in.Platforms))
	var g errgroup.Group
	if s.maxParallel > 0 {
		g.SetLimit(s.maxParallel)
	}
	for i, platform := range in.Platforms {
		g.Go(func() error {
			req := entity.GenerationRequest{
				Topic:             strings.TrimSpace(in.Topic),
				Platform:          platform,
				Provider:          in.Provider,
				Research:          research,
				AdditionalContext: in.AdditionalContext,
				Credential:        in.Credential,
			}
			content, err := s.GenerateOne(ctx, req)
			results[i] = entity.PlatformResult{Platform: platform, Content: content, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results, research, nil
}

// GenerateOne 为单个平台生成 1~3 条建议
func (s *Service) GenerateOne(ctx context.Context, req entity.GenerationRequest) (content *entity.GeneratedContent, err error) {
	ctx = logger.WithContext(ctx, logger.PlatformKey, string(req.Platform))
	ctx, span := tracer.Start(ctx, "generation.platform")
	start := time.Now()
	usedProvider := req.Provider
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.GenerationTotal.WithLabelValues(string(req.Platform), string(usedProvider), status).Inc()
		metrics.GenerationDuration.WithLabelValues(string(req.Platform)).Observe(time.Since(start).Seconds())
		tracer.Finish(span, err,
			attribute.String("generation.platform", string(req.Platform)),
			attribute.String("generation.preferred_provider", string(req.Provider)),
			attribute.String("generation.provider", string(usedProvider)),
		)
	}()

	system, user := prompt.Build(req.Platform, req.Topic, req.Research, req.AdditionalContext)

	out, err := s.orchestrator.Generate(ctx, req.Provider, llm.Prompt{System: system, User: user}, s.override(ctx, req))
	if err != nil {
		return nil, &PlatformError{Platform: req.Platform, Err: err}
	}
	usedProvider = out.Provider

	parsed := parser.ParseResult(out.Text, req.Platform)
	mode := "structured"
	if !parsed.Structured {
		mode = "fallback"
		logger.Warn(ctx, "provider output was not structured, using single-response fallback", "provider", string(out.Provider))
	}
	metrics.SuggestionCount.WithLabelValues(string(req.Platform), mode).Observe(float64(len(parsed.Suggestions)))

	return &entity.GeneratedContent{
		Platform:     req.Platform,
		Suggestions:  parsed.Suggestions,
		ResearchData: req.Research,
		Provider:     out.Provider,
	}, nil
}

// override 请求携带凭据时构造首选提供商的专属适配器，失败时退回池中适配器
func (s *Service) override(ctx context.Context, req entity.GenerationRequest) llm.Adapter {
	if s.factory == nil || strings.TrimSpace(req.Credential) == "" {
		return nil
	}
	a, err := s.factory.New(req.Provider, req.Credential)
	if err != nil {
		logger.Warn(ctx, "request credential rejected, using configured provider", "provider", string(req.Provider), "error", err.Error())
		return nil
	}
	return a
}

// research 研究失败按无研究处理
func (s *Service) research(ctx context.Context, topic, additionalContext string) *entity.ResearchBundle {
	if s.researcher == nil {
		return nil
	}
	bundle, err := s.researcher.Research(ctx, topic, additionalContext)
	if err != nil {
		logger.Warn(ctx, "research failed, continuing without research", "error", err.Error())
		return nil
	}
	return bundle
}

// VariationInput 改写请求
type VariationInput struct {
	Content    string
	Platform   entity.Platform
	Provider   entity.Provider
	Count      int
	Credential string
}

// Variations 基于已有内容生成改写版本
func (s *Service) Variations(ctx context.Context, in VariationInput) ([]string, entity.Provider, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, "", apperrors.ErrInvalidParam.WithDetail("content is required")
	}
	count := in.Count
	if count <= 0 {
		count = defaultVariationCount
	}
	if count > maxVariationCount {
		count = maxVariationCount
	}

	system, user, err := prompt.BuildVariations(ctx, in.Platform, in.Content, count)
	if err != nil {
		return nil, "", err
	}
	temperature := variationTemperature
	req := entity.GenerationRequest{Provider: in.Provider, Credential: in.Credential}

	out, err := s.orchestrator.Generate(ctx, in.Provider, llm.Prompt{System: system, User: user, Temperature: &temperature}, s.override(ctx, req))
	if err != nil {
		return nil, "", err
	}

	variations := parser.ParseVariations(out.Text, count)
	if len(variations) == 0 {
		return nil, out.Provider, fmt.Errorf("provider %s returned no variations", out.Provider)
	}
	return variations, out.Provider, nil
}

// Providers 返回提供商信息
func (s *Service) Providers() []entity.ProviderInfo {
	if s.catalog == nil {
		return nil
	}
	return s.catalog.Infos()
}
