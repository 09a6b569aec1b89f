// Copyright 2026 LinkedIn Corporation. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package process_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/linkedin/venice/pkg/process"
)

type testConfig struct {
	StoreName    string `default:"" usage:"store name"`
	NumPartitions int   `default:"3" usage:"partition count"`
	Hybrid       bool   `default:"false" usage:"hybrid store"`
	Secret       string `default:"shh" hidden:"true"`
}

func TestBindRegistersKebabCasedFlagsWithDefaults(t *testing.T) {
	cfg := &testConfig{}
	cmd := &cobra.Command{Use: "test"}
	process.Bind(cmd, cfg)

	require.NotNil(t, cmd.Flags().Lookup("store-name"))
	require.NotNil(t, cmd.Flags().Lookup("num-partitions"))
	require.NotNil(t, cmd.Flags().Lookup("hybrid"))

	flag := cmd.Flags().Lookup("num-partitions")
	require.Equal(t, "3", flag.DefValue)
}

func TestBindMarksHiddenFlags(t *testing.T) {
	cfg := &testConfig{}
	cmd := &cobra.Command{Use: "test"}
	process.Bind(cmd, cfg)

	flag := cmd.Flags().Lookup("secret")
	require.NotNil(t, flag)
	require.True(t, flag.Hidden)
}

func TestExecPropagatesFlagValues(t *testing.T) {
	cfg := &testConfig{}
	var ran bool
	cmd := &cobra.Command{
		Use: "test",
		RunE: func(cmd *cobra.Command, args []string) error {
			ran = true
			return nil
		},
	}
	process.Bind(cmd, cfg)
	cmd.SetArgs([]string{"--store-name=teststore", "--num-partitions=7"})

	require.NoError(t, process.Exec(cmd))
	require.True(t, ran)
	require.Equal(t, "teststore", cfg.StoreName)
	require.Equal(t, 7, cfg.NumPartitions)
}

func TestExecPropagatesEnvironmentOverFlagDefault(t *testing.T) {
	cfg := &testConfig{}
	cmd := &cobra.Command{
		Use:  "test",
		RunE: func(cmd *cobra.Command, args []string) error { return nil },
	}
	process.Bind(cmd, cfg)
	cmd.SetArgs(nil)

	t.Setenv("VENICE_STORE_NAME", "env-store")
	require.NoError(t, process.Exec(cmd))
	require.Equal(t, "env-store", cfg.StoreName)
}

func TestExecFlagOverridesWhenBothSet(t *testing.T) {
	cfg := &testConfig{}
	cmd := &cobra.Command{
		Use:  "test",
		RunE: func(cmd *cobra.Command, args []string) error { return nil },
	}
	process.Bind(cmd, cfg)
	cmd.SetArgs([]string{"--store-name=flag-store"})

	t.Setenv("VENICE_STORE_NAME", "env-store")
	require.NoError(t, process.Exec(cmd))
	require.Equal(t, "flag-store", cfg.StoreName)
}
