package detectors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redactyl/ddscan/internal/types"
)

func TestScriptImportsResolve(t *testing.T) {
	content := `import { addAction as track, addError } from '@datadog/browser-rum';
import datadogLogs from '@datadog/browser-logs';
import * as rum from '@telemetry/browser-rum';
import React from 'react';
const { datadogRum: dd } = require('@datadog/browser-rum');
`
	syms := newScriptImports(scopeAlternation(DefaultScopes)).resolve(content)
	require.Len(t, syms, 5)

	want := []types.ImportedSymbol{
		{Local: "track", Original: "addAction", Package: "@datadog/browser-rum", Style: types.BindNamed, Line: 1},
		{Local: "addError", Original: "addError", Package: "@datadog/browser-rum", Style: types.BindNamed, Line: 1},
		{Local: "datadogLogs", Original: "datadogLogs", Package: "@datadog/browser-logs", Style: types.BindDefault, Line: 2},
		{Local: "rum", Original: "rum", Package: "@telemetry/browser-rum", Style: types.BindNamespace, Line: 3},
		{Local: "dd", Original: "datadogRum", Package: "@datadog/browser-rum", Style: types.BindNamed, Line: 5},
	}
	assert.Equal(t, want, syms)
}

func TestScriptImportsRebinding(t *testing.T) {
	content := "import { addAction as track } from '@datadog/browser-rum';\n" +
		"import { addError as track } from '@datadog/browser-rum';\n"
	syms := newScriptImports(scopeAlternation(DefaultScopes)).resolve(content)
	require.Len(t, syms, 1)
	assert.Equal(t, "addError", syms[0].Original)
	assert.Equal(t, 2, syms[0].Line)
}

func TestScriptImportsCustomScope(t *testing.T) {
	content := "import { addAction } from '@acme/browser-rum';\n"
	assert.Empty(t, newScriptImports(scopeAlternation(DefaultScopes)).resolve(content))

	syms := newScriptImports(scopeAlternation([]string{"@acme"})).resolve(content)
	require.Len(t, syms, 1)
	assert.Equal(t, "addAction", syms[0].Local)
}

func TestScriptImportsNothingToResolve(t *testing.T) {
	r := newScriptImports(scopeAlternation(DefaultScopes))
	assert.Empty(t, r.resolve(""))
	assert.Empty(t, r.resolve("import {  from '@datadog/"))
}

func TestUnityImportsResolve(t *testing.T) {
	content := "using System;\nusing Datadog.Unity;\nusing Datadog.Unity.Rum;\nusing Logs = Datadog.Unity.Logs;\n"
	syms := unityImports{}.resolve(content)

	var locals []string
	kinds := map[string]string{}
	for _, s := range syms {
		locals = append(locals, s.Local)
		kinds[s.Local] = s.Kind
	}
	assert.Equal(t, []string{"Unity", "Rum", "RumUserActionType", "IDdRum", "Logs", "DdLogLevel", "DdLogger"}, locals)
	assert.Equal(t, "enum", kinds["RumUserActionType"])
	assert.Equal(t, "interface", kinds["IDdRum"])
	assert.Equal(t, "class", kinds["DdLogger"])

	assert.Equal(t, types.BindNamespace, syms[1].Style)
	assert.Equal(t, "Datadog.Unity.Rum", syms[1].Package)
	assert.Equal(t, types.BindDefault, syms[4].Style)
	assert.Equal(t, "Logs", syms[4].Original)
}

func TestUnityImportsKnownTypesBySegment(t *testing.T) {
	tests := []struct {
		name string
		ns   string
		want []string
	}{
		{"rum segment", "Datadog.Unity.Rum", []string{"Rum", "RumUserActionType", "IDdRum"}},
		{"logs segment any case", "Datadog.Unity.logs", []string{"logs", "DdLogLevel", "DdLogger"}},
		{"rum inside a word", "Datadog.Unity.Instrumentation", []string{"Instrumentation"}},
		{"logs inside a word", "Datadog.Unity.Blogs", []string{"Blogs"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var locals []string
			for _, s := range (unityImports{}).resolve("using " + tt.ns + ";\n") {
				locals = append(locals, s.Local)
			}
			assert.Equal(t, tt.want, locals)
		})
	}
}
