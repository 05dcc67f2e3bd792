//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/e-gun/TextClusterLab/internal/str"
	"github.com/e-gun/TextClusterLab/internal/vv"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

var (
	schemaonce sync.Once
	schema     *jsonschema.Schema
	schemaerr  error
)

func configschema() (*jsonschema.Schema, error) {
	schemaonce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(vv.CONFIGSCHEMA))
		if err != nil {
			schemaerr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err = c.AddResource(vv.CONFIGSCHEMAID, doc); err != nil {
			schemaerr = err
			return
		}
		schema, schemaerr = c.Compile(vv.CONFIGSCHEMAID)
	})
	return schema, schemaerr
}

// LoadConfigFile - validate a JSON config file and lay whatever it sets on top of cc
func LoadConfigFile(path string, cc *str.CurrentConfiguration) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return ApplyConfigJSON(b, cc)
}

// ApplyConfigJSON - validate against the embedded schema, then decode onto cc; fields absent from the JSON keep their values
func ApplyConfigJSON(b []byte, cc *str.CurrentConfiguration) error {
	sch, err := configschema()
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if err = sch.Validate(inst); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	if err = json.Unmarshal(b, cc); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// SchemaProblems - flatten a schema validation failure into "$.path: message" lines
func SchemaProblems(err error) []string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		if err == nil {
			return nil
		}
		return []string{err.Error()}
	}
	return walkcauses(ve)
}

func walkcauses(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		path := "$"
		if len(ve.InstanceLocation) > 0 {
			path = "$." + strings.Join(ve.InstanceLocation, ".")
		}
		return []string{fmt.Sprintf("%s: %s", path, ve.Error())}
	}
	var out []string
	for _, c := range ve.Causes {
		out = append(out, walkcauses(c)...)
	}
	return out
}
