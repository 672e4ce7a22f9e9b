package main

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/metusa-property/deal-analyzer/internal/area"
	"github.com/metusa-property/deal-analyzer/internal/cache"
	"github.com/metusa-property/deal-analyzer/internal/config"
	"github.com/metusa-property/deal-analyzer/internal/evaluator"
	"github.com/metusa-property/deal-analyzer/internal/fetcher"
	"github.com/metusa-property/deal-analyzer/internal/narrative"
	"github.com/metusa-property/deal-analyzer/internal/report"
	"github.com/metusa-property/deal-analyzer/pkg/anthropic"
	"github.com/metusa-property/deal-analyzer/pkg/landregistry"
	"github.com/metusa-property/deal-analyzer/pkg/propertydata"
	"github.com/metusa-property/deal-analyzer/pkg/transport"
)

// buildEvaluator layers config-file overrides over the built-in policy and
// validates the merged result.
func buildEvaluator(c *config.Config) (*evaluator.Evaluator, error) {
	merged := evaluator.MergeConfig(evaluator.DefaultConfig(), c.Evaluator)
	if err := evaluator.ValidateConfig(merged); err != nil {
		return nil, eris.Wrap(err, "evaluator policy")
	}
	return evaluator.New(merged), nil
}

// buildArea wires the third-party data clients behind the aggregation
// service. The returned close function releases the cache backend.
func buildArea(c *config.Config) (*area.Service, func(), error) {
	store, err := cache.New(c.Cache)
	if err != nil {
		return nil, nil, err
	}

	httpc := fetcher.New(fetcher.Options{
		RateLimiters: fetcher.DefaultRateLimiters(),
	})

	land := landregistry.New(c.LandRegistry.Endpoint, httpc)
	property := propertydata.New(c.PropertyData.BaseURL, c.PropertyData.Key, httpc)
	tr := transport.New(c.Transport.TfLBaseURL, c.Transport.TfLAppKey, c.Transport.PostcodesBaseURL, httpc)

	svc := area.New(land, property, tr, area.Options{
		Cache: store,
		TTL:   time.Duration(c.Cache.TTLHours) * time.Hour,
	})

	closeFn := func() {
		if closer, ok := store.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				zap.L().Warn("closing cache", zap.Error(err))
			}
		}
	}
	return svc, closeFn, nil
}

func buildRenderer(c *config.Config) *report.Renderer {
	return report.New(report.Options{
		Brand:           c.Report.BrandName,
		WkhtmltopdfPath: c.Report.WkhtmltopdfPath,
	})
}

// buildNarrator returns a generator whose Configured() is false when no API
// key is set; callers degrade accordingly.
func buildNarrator(c *config.Config) *narrative.Generator {
	var client anthropic.Client
	if c.Anthropic.Key != "" {
		client = anthropic.NewClient(c.Anthropic.Key)
	}
	return narrative.New(client, c.Anthropic)
}
