package detectors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/redactyl/ddscan/internal/types"
)

func TestClassifyMethod(t *testing.T) {
	tests := []struct {
		name, method, pkg string
		cat               types.DataCategory
		op                types.OperationType
	}{
		{"rum error", "addError", "@datadog/browser-rum", types.CatError, types.OpRUMError},
		{"rum timing", "addTiming", "@datadog/browser-rum", types.CatPerformance, types.OpRUMTiming},
		{"rum action", "addAction", "@datadog/browser-rum", types.CatSystem, types.OpRUMAction},
		{"rum other", "setUser", "@datadog/browser-rum", types.CatSystem, types.OpCustomAttribute},
		{"logs default", "datadogLogs", "@datadog/browser-logs", types.CatSystem, types.OpLogInfo},
		{"react plugin", "reactPlugin", "@datadog/browser-rum-react", types.CatConfiguration, types.OpCustomAttribute},
		{"unknown package", "helper", "@datadog/toolkit", types.CatSystem, types.OpCustomAttribute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.cat, classifyMethod(tt.method, tt.pkg))
			assert.Equal(t, tt.op, methodOperation(tt.method, tt.pkg))
		})
	}
}

func TestClassifyType(t *testing.T) {
	tests := []struct {
		name, typeName, member string
		cat                    types.DataCategory
		op                     types.OperationType
	}{
		{"rum action", "IDdRum", "AddAction", types.CatSystem, types.OpRUMAction},
		{"rum tap", "RumUserActionType", "Tap", types.CatSystem, types.OpCustomAttribute},
		{"log level", "DdLogLevel", "Warn", types.CatSystem, types.OpLogWarn},
		{"logger error", "DdLogger", "Error", types.CatError, types.OpLogError},
		{"sdk init", "DatadogSdk", "InitWithPlatform", types.CatConfiguration, types.OpConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.cat, classifyType(tt.typeName, tt.member))
			assert.Equal(t, tt.op, typeOperation(tt.typeName, tt.member))
		})
	}
}

func TestClassifyKind(t *testing.T) {
	assert.Equal(t, types.CatConfiguration, classifyKind(kindImports, nil))
	assert.Equal(t, types.CatConfiguration, classifyKind(kindLogCreate, nil))
	assert.Equal(t, types.CatError, classifyKind(kindRUMError, nil))
	assert.Equal(t, types.CatPerformance, classifyKind(kindRUMTiming, nil))
	assert.Equal(t, types.CatUser, classifyKind(kindRUMAction, map[string]any{"action_name": "Swipe-Left"}))
	assert.Equal(t, types.CatSystem, classifyKind(kindRUMAction, map[string]any{"action_name": "checkout"}))
	assert.Equal(t, types.CatSystem, classifyKind(kindGlobalContext, nil))
}
