package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ChartConfig maps business document roles to SYSCOHADA account code
// prefixes. Posting automation resolves target accounts through it, so a
// company running a localized chart can repoint the prefixes without a
// rebuild.
type ChartConfig struct {
	ClientPrefix        string  `mapstructure:"clientPrefix"`
	SupplierPrefix      string  `mapstructure:"supplierPrefix"`
	SalesPrefix         string  `mapstructure:"salesPrefix"`
	PurchasePrefix      string  `mapstructure:"purchasePrefix"`
	VatCollectedPrefix  string  `mapstructure:"vatCollectedPrefix"`
	VatDeductiblePrefix string  `mapstructure:"vatDeductiblePrefix"`
	CashPrefix          string  `mapstructure:"cashPrefix"`
	BankPrefix          string  `mapstructure:"bankPrefix"`
	GrossSalaryPrefix   string  `mapstructure:"grossSalaryPrefix"`
	EmployerContribs    string  `mapstructure:"employerContribsPrefix"`
	SocialLiability     string  `mapstructure:"socialLiabilityPrefix"`
	WithheldTaxPrefix   string  `mapstructure:"withheldTaxPrefix"`
	NetPayDuePrefix     string  `mapstructure:"netPayDuePrefix"`
	StandardVatRate     float64 `mapstructure:"standardVatRate"`

	// FailurePolicies keys are posting flows (invoice, payment, purchase,
	// payroll, salary_payment); values are "propagate" or "log".
	FailurePolicies map[string]string `mapstructure:"failurePolicies"`
}

func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		ClientPrefix:        "411",
		SupplierPrefix:      "401",
		SalesPrefix:         "701",
		PurchasePrefix:      "601",
		VatCollectedPrefix:  "443",
		VatDeductiblePrefix: "445",
		CashPrefix:          "57",
		BankPrefix:          "52",
		GrossSalaryPrefix:   "661",
		EmployerContribs:    "664",
		SocialLiability:     "43",
		WithheldTaxPrefix:   "447",
		NetPayDuePrefix:     "422",
		StandardVatRate:     0.18,
		FailurePolicies:     map[string]string{},
	}
}

// ChartConfigHolder serves the active ChartConfig and hot-reloads it when the
// backing file changes.
type ChartConfigHolder struct {
	current atomic.Value // holds ChartConfig
}

func NewChartConfigHolder(log *zap.Logger) (*ChartConfigHolder, error) {
	log = log.Named("chart.config")
	v := viper.New()

	v.SetConfigName("chart")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/zinari")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ZINARI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultChartConfig()
	v.SetDefault("chart", defaults)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg ChartConfig
	if err := v.UnmarshalKey("chart", &cfg); err != nil {
		return nil, err
	}
	applyChartDefaults(&cfg, defaults)
	if err := validateChartConfig(cfg); err != nil {
		return nil, err
	}

	holder := &ChartConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ChartConfig
		if err := v.UnmarshalKey("chart", &updated); err != nil {
			log.Warn("reload failed", zap.Error(err))
			return
		}
		applyChartDefaults(&updated, defaults)
		if err := validateChartConfig(updated); err != nil {
			log.Warn("invalid config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *ChartConfigHolder) Get() ChartConfig {
	return h.current.Load().(ChartConfig)
}

// Store replaces the active config. Tests use it to exercise policy switches.
func (h *ChartConfigHolder) Store(cfg ChartConfig) {
	h.current.Store(cfg)
}

func applyChartDefaults(cfg *ChartConfig, defaults ChartConfig) {
	if cfg.ClientPrefix == "" {
		cfg.ClientPrefix = defaults.ClientPrefix
	}
	if cfg.SupplierPrefix == "" {
		cfg.SupplierPrefix = defaults.SupplierPrefix
	}
	if cfg.SalesPrefix == "" {
		cfg.SalesPrefix = defaults.SalesPrefix
	}
	if cfg.PurchasePrefix == "" {
		cfg.PurchasePrefix = defaults.PurchasePrefix
	}
	if cfg.VatCollectedPrefix == "" {
		cfg.VatCollectedPrefix = defaults.VatCollectedPrefix
	}
	if cfg.VatDeductiblePrefix == "" {
		cfg.VatDeductiblePrefix = defaults.VatDeductiblePrefix
	}
	if cfg.CashPrefix == "" {
		cfg.CashPrefix = defaults.CashPrefix
	}
	if cfg.BankPrefix == "" {
		cfg.BankPrefix = defaults.BankPrefix
	}
	if cfg.GrossSalaryPrefix == "" {
		cfg.GrossSalaryPrefix = defaults.GrossSalaryPrefix
	}
	if cfg.EmployerContribs == "" {
		cfg.EmployerContribs = defaults.EmployerContribs
	}
	if cfg.SocialLiability == "" {
		cfg.SocialLiability = defaults.SocialLiability
	}
	if cfg.WithheldTaxPrefix == "" {
		cfg.WithheldTaxPrefix = defaults.WithheldTaxPrefix
	}
	if cfg.NetPayDuePrefix == "" {
		cfg.NetPayDuePrefix = defaults.NetPayDuePrefix
	}
	if cfg.StandardVatRate == 0 {
		cfg.StandardVatRate = defaults.StandardVatRate
	}
	if cfg.FailurePolicies == nil {
		cfg.FailurePolicies = map[string]string{}
	}
}

func validateChartConfig(cfg ChartConfig) error {
	if cfg.StandardVatRate < 0 || cfg.StandardVatRate >= 1 {
		return errors.New("chart.standardVatRate must be in [0,1)")
	}
	for flow, policy := range cfg.FailurePolicies {
		switch policy {
		case "propagate", "log":
		default:
			return errors.New("chart.failurePolicies." + flow + " must be propagate or log")
		}
	}
	return nil
}
