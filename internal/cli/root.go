package cli

import (
	"os"

	"github.com/spf13/cobra"

	"staffinvoice/internal/platform/config"
)

func Execute() {
	cmd := newRootCmd(config.Load)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	tenant   string
	logLevel string
	load     func() config.Config
}

func (o *options) config() config.Config {
	cfg := o.load()
	if o.tenant != "" {
		cfg.TenantID = o.tenant
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg
}

func newRootCmd(load func() config.Config) *cobra.Command {
	opts := &options{load: load}

	cmd := &cobra.Command{
		Use:          "invoicer",
		Short:        "Evaluate staffing invoice templates per employee",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.tenant, "tenant", "", "Tenant id (overrides TENANT_ID)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides LOG_LEVEL)")

	cmd.AddCommand(runCmd(opts))
	cmd.AddCommand(validateCmd(opts))
	cmd.AddCommand(listCmd(opts))
	cmd.AddCommand(showCmd(opts))
	return cmd
}
