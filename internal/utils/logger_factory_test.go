package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tmarkov/rebase-branches/internal/utils"
)

func TestCreateLoggerSupportedCombinations(testInstance *testing.T) {
	testCases := []struct {
		name      string
		logLevel  utils.LogLevel
		logFormat utils.LogFormat
	}{
		{name: "debug_structured", logLevel: utils.LogLevelDebug, logFormat: utils.LogFormatStructured},
		{name: "info_console", logLevel: utils.LogLevelInfo, logFormat: utils.LogFormatConsole},
		{name: "warn_structured", logLevel: utils.LogLevelWarn, logFormat: utils.LogFormatStructured},
		{name: "error_console", logLevel: utils.LogLevelError, logFormat: utils.LogFormatConsole},
	}

	factory := utils.NewLoggerFactory()
	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			logger, creationError := factory.CreateLogger(testCase.logLevel, testCase.logFormat)
			require.NoError(testInstance, creationError)
			require.NotNil(testInstance, logger)
		})
	}
}

func TestCreateLoggerRejectsUnsupportedValues(testInstance *testing.T) {
	factory := utils.NewLoggerFactory()

	_, levelError := factory.CreateLogger(utils.LogLevel("verbose"), utils.LogFormatStructured)
	require.Error(testInstance, levelError)
	require.Contains(testInstance, levelError.Error(), "unsupported log level")

	_, formatError := factory.CreateLogger(utils.LogLevelInfo, utils.LogFormat("plain"))
	require.Error(testInstance, formatError)
	require.Contains(testInstance, formatError.Error(), "unsupported log format")
}
