//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

// CONFIGSCHEMA - the shape of "tcl-prolix-conf.json" and of any "-cf" experiment file
const CONFIGSCHEMA = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "ProjectDir":       {"type": "string"},
    "RawDataDir":       {"type": "string"},
    "NotebookDir":      {"type": "string"},
    "Topics":           {"type": "array", "items": {"type": "string", "minLength": 1}, "minItems": 1},
    "StopwordsDir":     {"type": "string"},
    "StopwordsURL":     {"type": "string"},
    "StopwordsLang":    {"type": "string"},
    "NumSamples":       {"type": "integer", "minimum": 0},
    "NClusters":        {"type": "integer", "minimum": 1},
    "RandomState":      {"type": "integer"},
    "ShuffleSeed":      {"type": "integer"},
    "NumDocsToRead":    {"type": "integer", "minimum": 0},
    "ReadOrder":        {"type": "array", "items": {"type": "integer", "minimum": 0}},
    "ParamGrid":        {
      "type": "object",
      "patternProperties": {
        "^(vectorizer|clusterer)__[a-z_]+$": {"type": "array", "minItems": 1}
      },
      "additionalProperties": false
    },
    "TextColumn":       {"type": "string", "enum": ["title", "content", "tags"]},
    "RemoveNum":        {"type": "boolean"},
    "MinLen":           {"type": "integer", "minimum": 0},
    "MaxLen":           {"type": "integer", "minimum": 0},
    "KeepIntermediate": {"type": "boolean"},
    "SkipRetrieve":     {"type": "boolean"},
    "SkipCluster":      {"type": "boolean"},
    "LogLevel":         {"type": "integer", "minimum": -1, "maximum": 5},
    "BlackAndWhite":    {"type": "boolean"},
    "WorkerCount":      {"type": "integer", "minimum": 1},
    "Serve":            {"type": "boolean"},
    "ServeOnly":        {"type": "boolean"},
    "HostIP":           {"type": "string"},
    "HostPort":         {"type": "integer", "minimum": 1, "maximum": 65535},
    "EchoLog":          {"type": "integer", "minimum": 0, "maximum": 3},
    "Gzip":             {"type": "boolean"},
    "LedgerPath":       {"type": "string"},
    "ProfileCPU":       {"type": "boolean"},
    "ProfileMEM":       {"type": "boolean"},
    "PGLogin":          {
      "type": "object",
      "properties": {
        "Host":   {"type": "string"},
        "Port":   {"type": "integer"},
        "User":   {"type": "string"},
        "Pass":   {"type": "string"},
        "DBName": {"type": "string"}
      },
      "additionalProperties": false
    }
  }
}`
