package cmd

import (
	"github.com/netassist/netconfig-assist/pkg/domain/errors"
	"github.com/netassist/netconfig-assist/pkg/logger"
)

// isConfigurationError checks if the error is caused by missing LLM settings
func isConfigurationError(err error) bool {
	return errors.CodeOf(err) == errors.CodeConfigurationInvalid
}

// printConfigurationHelp displays guidance for LLM configuration failures
func printConfigurationHelp() {
	logger.Error("\n🔧 Configuring the LLM provider:")
	logger.Error("   • gemini (default): set GOOGLE_API_KEY in the environment, a .env file,")
	logger.Error("     or .streamlit/secrets.toml (GOOGLE_API_KEY = \"...\")")
	logger.Error("   • azure: set AZURE_OPENAI_KEY, AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_DEPLOYMENT_ID")
	logger.Error("     and pass --provider azure")
	logger.Error("\n💡 Run 'netconfig-assist test' to verify the connection")
	logger.Error("")
}
