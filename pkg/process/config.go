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

// Package process binds a configuration struct's fields to cobra flags
// and viper environment variables, directly grounded on the corpus's
// pkg/process (exec_conf_test.go's TestExec_PropagatesSettings and
// TestHidden): a struct-tag-driven Bind/Exec pair, with environment
// variables prefixed VENICE_ rather than the corpus's STORJ_.
//
// Recognized struct tags: `default:"..."` (always-used default),
// `releaseDefault:"..."` / `devDefault:"..."` (environment-dependent
// default; release is always true here, so releaseDefault is used and
// devDefault is never applied), and
// `hidden:"true"` (flag is bound but not shown in --help).
package process

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the viper environment variable prefix every bound flag is
// also reachable under (e.g. a flag named "foo-bar" binds VENICE_FOO_BAR).
const EnvPrefix = "VENICE"

// release selects releaseDefault over devDefault, mirroring the corpus's
// releaseDefault/devDefault tag pair. Nothing in this module sets it to
// false.
var release = true

// Bind walks config's fields (config must be a pointer to a struct) and
// registers one cobra/pflag flag per field, named from the field's
// kebab-cased name, e.g. "store-name" (or its `flag:"..."` tag if present), seeded from
// `default`/`releaseDefault`/`devDefault` tags.
func Bind(cmd *cobra.Command, config interface{}) {
	v := reflect.ValueOf(config).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" { // unexported
			continue
		}

		name := field.Tag.Get("flag")
		if name == "" {
			name = toFlagName(field.Name)
		}
		usage := field.Tag.Get("usage")
		hidden := field.Tag.Get("hidden") == "true"

		def := field.Tag.Get("default")
		if dv, ok := releaseOrDevDefault(field); ok {
			def = dv
		}

		fieldValue := v.Field(i).Addr().Interface()
		flag := registerFlag(cmd.Flags(), name, usage, def, fieldValue)
		if flag != nil && hidden {
			flag.Hidden = true
		}
	}
}

func releaseOrDevDefault(field reflect.StructField) (string, bool) {
	if release {
		if dv, ok := field.Tag.Lookup("releaseDefault"); ok {
			return dv, true
		}
	} else if dv, ok := field.Tag.Lookup("devDefault"); ok {
		return dv, true
	}
	return "", false
}

func toFlagName(fieldName string) string {
	var b strings.Builder
	for i, r := range fieldName {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

func registerFlag(flags *pflag.FlagSet, name, usage, def string, fieldValue interface{}) *pflag.Flag {
	switch p := fieldValue.(type) {
	case *int:
		d, _ := strconv.Atoi(def)
		flags.IntVar(p, name, d, usage)
	case *int64:
		d, _ := strconv.ParseInt(def, 10, 64)
		flags.Int64Var(p, name, d, usage)
	case *bool:
		d, _ := strconv.ParseBool(def)
		flags.BoolVar(p, name, d, usage)
	case *string:
		flags.StringVar(p, name, def, usage)
	case *float64:
		d, _ := strconv.ParseFloat(def, 64)
		flags.Float64Var(p, name, d, usage)
	default:
		return nil
	}
	return flags.Lookup(name)
}

// Exec binds viper to cmd's flag set (including environment variables
// under EnvPrefix) and overwrites every bound value from the
// environment, then runs cmd. This is the same two-phase flow as the
// corpus's process.Exec: flags establish shape and defaults; viper layers
// the environment on top.
func Exec(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !v.IsSet(f.Name) {
			return
		}
		_ = cmd.Flags().Set(f.Name, v.GetString(f.Name))
	})

	return cmd.Execute()
}
