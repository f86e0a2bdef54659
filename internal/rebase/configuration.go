package rebase

const (
	interactiveConfigurationKeyConstant = "interactive"
)

// CommandConfiguration captures persisted configuration for batch rebasing.
type CommandConfiguration struct {
	Interactive bool `mapstructure:"interactive"`
}

// DefaultCommandConfiguration returns baseline configuration values for batch rebasing.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Interactive: false,
	}
}

// DefaultConfigurationValues produces Viper defaults for the rebase command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + interactiveConfigurationKeyConstant: defaults.Interactive,
	}
}
