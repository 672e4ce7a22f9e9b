package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Evaluator    EvaluatorConfig    `yaml:"evaluator" mapstructure:"evaluator"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	LandRegistry LandRegistryConfig `yaml:"land_registry" mapstructure:"land_registry"`
	PropertyData PropertyDataConfig `yaml:"property_data" mapstructure:"property_data"`
	Transport    TransportConfig    `yaml:"transport" mapstructure:"transport"`
	Anthropic    AnthropicConfig    `yaml:"anthropic" mapstructure:"anthropic"`
	Report       ReportConfig       `yaml:"report" mapstructure:"report"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// SDLTBand is one marginal stamp duty band. UpperBound of 0 means unbounded.
type SDLTBand struct {
	UpperBound float64 `yaml:"upper_bound" mapstructure:"upper_bound"`
	Rate       float64 `yaml:"rate" mapstructure:"rate"`
}

// SDLTConfig holds the stamp duty band table and the additional-property
// surcharge. Rates are policy inputs that change with fiscal years, so they
// are configuration rather than code.
type SDLTConfig struct {
	Bands         []SDLTBand `yaml:"bands" mapstructure:"bands"`
	SurchargeRate float64    `yaml:"surcharge_rate" mapstructure:"surcharge_rate"`
}

// FeesConfig holds the default purchase fees applied when the caller does
// not override them.
type FeesConfig struct {
	Legal       float64 `yaml:"legal" mapstructure:"legal"`
	Valuation   float64 `yaml:"valuation" mapstructure:"valuation"`
	Arrangement float64 `yaml:"arrangement" mapstructure:"arrangement"`
}

// ExpensesConfig holds the operating expense model for letting strategies.
type ExpensesConfig struct {
	ManagementRate  float64 `yaml:"management_rate" mapstructure:"management_rate"`
	VoidWeeks       float64 `yaml:"void_weeks" mapstructure:"void_weeks"`
	MaintenanceRate float64 `yaml:"maintenance_rate" mapstructure:"maintenance_rate"`
	AnnualInsurance float64 `yaml:"annual_insurance" mapstructure:"annual_insurance"`
}

// VerdictThresholds gate the PROCEED/REVIEW/AVOID classification for one
// deal type.
type VerdictThresholds struct {
	// HighYield is the gross yield (percent) required for PROCEED.
	HighYield float64 `yaml:"high_yield" mapstructure:"high_yield"`
	// MinViableYield is the gross yield (percent) below which the deal is AVOID.
	MinViableYield float64 `yaml:"min_viable_yield" mapstructure:"min_viable_yield"`
	// MinReturn is the cash-on-cash return (percent) required for PROCEED.
	MinReturn float64 `yaml:"min_return" mapstructure:"min_return"`
	// ProceedROI / ReviewROI gate BRR and FLIP strategy returns (percent).
	ProceedROI float64 `yaml:"proceed_roi" mapstructure:"proceed_roi"`
	ReviewROI  float64 `yaml:"review_roi" mapstructure:"review_roi"`
	// MinProfit gates FLIP resale profit (absolute).
	MinProfit float64 `yaml:"min_profit" mapstructure:"min_profit"`
}

// RiskConfig holds the rule thresholds for the four risk categories.
type RiskConfig struct {
	FinanceLTVHigh     float64 `yaml:"finance_ltv_high" mapstructure:"finance_ltv_high"`
	FinanceLTVMedium   float64 `yaml:"finance_ltv_medium" mapstructure:"finance_ltv_medium"`
	FinanceStressRate  float64 `yaml:"finance_stress_rate" mapstructure:"finance_stress_rate"`
	FinanceMediumRate  float64 `yaml:"finance_medium_rate" mapstructure:"finance_medium_rate"`
	RefurbHighFraction float64 `yaml:"refurb_high_fraction" mapstructure:"refurb_high_fraction"`
	MarketHighPrice    float64 `yaml:"market_high_price" mapstructure:"market_high_price"`
	MarketMediumPrice  float64 `yaml:"market_medium_price" mapstructure:"market_medium_price"`
}

// ProjectionConfig holds the five-year outlook growth assumptions.
type ProjectionConfig struct {
	RentGrowthRate    float64 `yaml:"rent_growth_rate" mapstructure:"rent_growth_rate"`
	CapitalGrowthRate float64 `yaml:"capital_growth_rate" mapstructure:"capital_growth_rate"`
	Years             int     `yaml:"years" mapstructure:"years"`
}

// EvaluatorConfig is the full business-policy input to the deal evaluator.
// Everything here is policy likely to change independently of the algorithm.
type EvaluatorConfig struct {
	SDLT     SDLTConfig     `yaml:"sdlt" mapstructure:"sdlt"`
	Fees     FeesConfig     `yaml:"fees" mapstructure:"fees"`
	Expenses ExpensesConfig `yaml:"expenses" mapstructure:"expenses"`

	MinDepositPercent float64 `yaml:"min_deposit_percent" mapstructure:"min_deposit_percent"`
	MaxDepositPercent float64 `yaml:"max_deposit_percent" mapstructure:"max_deposit_percent"`
	MaxInterestRate   float64 `yaml:"max_interest_rate" mapstructure:"max_interest_rate"`
	MaxPurchasePrice  float64 `yaml:"max_purchase_price" mapstructure:"max_purchase_price"`
	MaxMonthlyRent    float64 `yaml:"max_monthly_rent" mapstructure:"max_monthly_rent"`

	Verdict    map[string]VerdictThresholds `yaml:"verdict" mapstructure:"verdict"`
	Risk       RiskConfig                   `yaml:"risk" mapstructure:"risk"`
	Projection ProjectionConfig             `yaml:"projection" mapstructure:"projection"`

	// BRR refinance loan-to-value against after-repair value.
	RefinanceLTV float64 `yaml:"refinance_ltv" mapstructure:"refinance_ltv"`
	// FLIP holding period in months and selling cost model.
	FlipHoldingMonths  float64 `yaml:"flip_holding_months" mapstructure:"flip_holding_months"`
	FlipAgentRate      float64 `yaml:"flip_agent_rate" mapstructure:"flip_agent_rate"`
	FlipFixedSaleCosts float64 `yaml:"flip_fixed_sale_costs" mapstructure:"flip_fixed_sale_costs"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	// Per-IP request budgets (requests per minute).
	AnalyzeRPM int `yaml:"analyze_rpm" mapstructure:"analyze_rpm"`
	PDFRPM     int `yaml:"pdf_rpm" mapstructure:"pdf_rpm"`
	DataRPM    int `yaml:"data_rpm" mapstructure:"data_rpm"`
}

// CacheConfig configures third-party response caching.
type CacheConfig struct {
	Backend  string `yaml:"backend" mapstructure:"backend"` // redis or memory
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`
	TTLHours int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

// LandRegistryConfig holds the Price Paid Data SPARQL endpoint settings.
type LandRegistryConfig struct {
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
}

// PropertyDataConfig holds PropertyData API credentials.
type PropertyDataConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// TransportConfig holds TfL and National Rail lookup settings.
type TransportConfig struct {
	TfLBaseURL       string `yaml:"tfl_base_url" mapstructure:"tfl_base_url"`
	TfLAppKey        string `yaml:"tfl_app_key" mapstructure:"tfl_app_key"`
	PostcodesBaseURL string `yaml:"postcodes_base_url" mapstructure:"postcodes_base_url"`
}

// AnthropicConfig holds the narrative-generation model settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ReportConfig configures PDF rendering.
type ReportConfig struct {
	WkhtmltopdfPath string `yaml:"wkhtmltopdf_path" mapstructure:"wkhtmltopdf_path"`
	BrandName       string `yaml:"brand_name" mapstructure:"brand_name"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ANALYZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{
		"https://metusaproperty.co.uk",
		"https://analyzer.metusaproperty.co.uk",
	})
	v.SetDefault("server.analyze_rpm", 10)
	v.SetDefault("server.pdf_rpm", 5)
	v.SetDefault("server.data_rpm", 10)

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.redis_url", "redis://localhost:6379/0")
	v.SetDefault("cache.ttl_hours", 24)

	v.SetDefault("land_registry.endpoint", "http://landregistry.data.gov.uk/landregistry/query")
	v.SetDefault("property_data.base_url", "https://api.propertydata.co.uk")
	v.SetDefault("transport.tfl_base_url", "https://api.tfl.gov.uk")
	v.SetDefault("transport.postcodes_base_url", "https://api.postcodes.io")

	// Secrets default to empty so env overrides bind through Unmarshal.
	v.SetDefault("property_data.key", "")
	v.SetDefault("transport.tfl_app_key", "")
	v.SetDefault("anthropic.key", "")

	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 1024)

	v.SetDefault("report.wkhtmltopdf_path", "wkhtmltopdf")
	v.SetDefault("report.brand_name", "Metusa Property")

	// Evaluator policy defaults live next to the algorithm (see
	// evaluator.DefaultConfig); viper carries only overrides for them.

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
