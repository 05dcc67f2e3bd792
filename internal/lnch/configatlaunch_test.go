//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e-gun/TextClusterLab/internal/vv"
)

func TestBuildDefaultConfig(t *testing.T) {
	c := BuildDefaultConfig()
	assert.Equal(t, []string{"biology", "cooking", "crypto", "diy", "robotics", "travel"}, c.Topics)
	assert.Equal(t, vv.NUMSAMPLES, c.NumSamples)
	assert.Equal(t, 6, c.NClusters)
	assert.Equal(t, 42, c.RandomState)
	assert.Equal(t, vv.RAWDATADIR, c.RawDataDir)
	assert.False(t, c.PGLogin.Usable())
	assert.False(t, c.RemoveNum)
}

func TestParseArgs(t *testing.T) {
	c := BuildDefaultConfig()
	args := []string{"-nc", "4", "-rs", "7", "-ns", "100", "-kc", "-r1", "-sv", "-sp", "9000",
		"-wd", "/tmp/x", "-pg", `{"Pass": "p", "DBName": "d", "Host": "h", "Port": 1, "User": "u"}`}
	act, err := ParseArgs(c, args)
	require.NoError(t, err)
	assert.Equal(t, RunAll, act)
	assert.Equal(t, 4, c.NClusters)
	assert.Equal(t, 7, c.RandomState)
	assert.Equal(t, 100, c.NumSamples)
	assert.True(t, c.KeepIntermediate)
	assert.True(t, c.SkipRetrieve)
	assert.False(t, c.SkipCluster)
	assert.True(t, c.Serve)
	assert.Equal(t, 9000, c.HostPort)
	assert.Equal(t, "/tmp/x", c.ProjectDir)
	assert.True(t, c.PGLogin.Usable())
}

func TestParseArgsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing value", []string{"-nc"}},
		{"not a number", []string{"-rs", "seven"}},
		{"bad credentials", []string{"-pg", "{nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArgs(BuildDefaultConfig(), tt.args)
			assert.Error(t, err)
		})
	}
}

func TestParseArgsActions(t *testing.T) {
	act, err := ParseArgs(BuildDefaultConfig(), []string{"-h"})
	require.NoError(t, err)
	assert.Equal(t, ShowHelp, act)

	act, err = ParseArgs(BuildDefaultConfig(), []string{"-v"})
	require.NoError(t, err)
	assert.Equal(t, ShowVersion, act)
}

func TestApplyConfigJSON(t *testing.T) {
	c := BuildDefaultConfig()
	js := `{"Topics": ["cooking", "travel"], "NClusters": 2,
		"ParamGrid": {"clusterer__n_clusters": [2, 3], "vectorizer__use_idf": [true]}}`
	require.NoError(t, ApplyConfigJSON([]byte(js), c))
	assert.Equal(t, []string{"cooking", "travel"}, c.Topics)
	assert.Equal(t, 2, c.NClusters)
	assert.Len(t, c.ParamGrid["clusterer__n_clusters"], 2)
	// untouched fields survive
	assert.Equal(t, 42, c.RandomState)
}

func TestApplyConfigJSONRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name string
		js   string
	}{
		{"unknown field", `{"Nope": 1}`},
		{"wrong type", `{"NClusters": "six"}`},
		{"zero clusters", `{"NClusters": 0}`},
		{"bad grid key", `{"ParamGrid": {"n_clusters": [2]}}`},
		{"bad column", `{"TextColumn": "body"}`},
		{"not json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ApplyConfigJSON([]byte(tt.js), BuildDefaultConfig())
			require.Error(t, err)
			assert.NotEmpty(t, SchemaProblems(err))
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "exp.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"NumDocsToRead": 3, "ReadOrder": [2, 0, 1]}`), 0644))

	c := BuildDefaultConfig()
	require.NoError(t, LoadConfigFile(p, c))
	assert.Equal(t, 3, c.NumDocsToRead)
	assert.Equal(t, []int{2, 0, 1}, c.ReadOrder)

	assert.Error(t, LoadConfigFile(filepath.Join(dir, "missing.json"), c))
}

func TestHelpText(t *testing.T) {
	Msg.BW = true
	h := HelpText(BuildDefaultConfig())
	assert.Contains(t, h, "-nc {num}")
	assert.Contains(t, h, vv.CONFIGPROLIX)
	assert.NotContains(t, h, "C1")
}
