package rpc

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/bayleafwalker/capture-core/internal/capture"
)

// Request and response field names.
const (
	fieldDevice     = "device"
	fieldCatalog    = "catalog"
	fieldOptions    = "options"
	fieldRunID      = "runId"
	fieldSettings   = "settings"
	fieldReport     = "report"
	fieldUnresolved = "unresolved"

	optForceAuto  = "forceControlModeAuto"
	optForceWorst = "forceWorstConfiguration"
	optMaxFPS     = "maxFPS"
	optMaxFPSDiff = "maxFPSDiff"
	optQuirks     = "quirks"
)

// NewRequest builds a Resolve request. catalog is a catalog document as accepted by
// capability.FromMap.
func NewRequest(device string, catalog map[string]any, opts capture.Options) (*structpb.Struct, error) {
	quirks := make([]any, 0, len(opts.Quirks))
	for _, q := range opts.Quirks {
		quirks = append(quirks, q)
	}
	req, err := structpb.NewStruct(map[string]any{
		fieldDevice:  device,
		fieldCatalog: catalog,
		fieldOptions: map[string]any{
			optForceAuto:  opts.ForceControlModeAuto,
			optForceWorst: opts.ForceWorstConfiguration,
			optMaxFPS:     opts.MaxFPS,
			optMaxFPSDiff: opts.MaxFPSDiff,
			optQuirks:     quirks,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build resolve request: %w", err)
	}
	return req, nil
}

// decodeOptions overlays the fields present in raw on defaults.
func decodeOptions(raw any, defaults capture.Options) (capture.Options, error) {
	opts := defaults
	if raw == nil {
		return opts, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return opts, fmt.Errorf("options must be an object, got %T", raw)
	}
	if v, ok := m[optForceAuto].(bool); ok {
		opts.ForceControlModeAuto = v
	}
	if v, ok := m[optForceWorst].(bool); ok {
		opts.ForceWorstConfiguration = v
	}
	if v, ok := m[optMaxFPS].(float64); ok {
		opts.MaxFPS = v
	}
	if v, ok := m[optMaxFPSDiff].(float64); ok {
		opts.MaxFPSDiff = v
	}
	if list, ok := m[optQuirks].([]any); ok {
		opts.Quirks = nil
		for _, q := range list {
			name, isString := q.(string)
			if !isString {
				return opts, fmt.Errorf("quirk names must be strings, got %T", q)
			}
			opts.Quirks = append(opts.Quirks, name)
		}
	}
	return opts, nil
}

// Response is the decoded form of a Resolve response.
type Response struct {
	RunID      string
	Settings   []Setting
	Report     []string
	Unresolved []string
}

type Setting struct {
	Parameter string
	Status    string
	Value     string
	Rationale string
	Quirk     string
}

func DecodeResponse(s *structpb.Struct) Response {
	m := s.AsMap()
	resp := Response{RunID: stringField(m, fieldRunID)}
	if list, ok := m[fieldSettings].([]any); ok {
		for _, item := range list {
			e, ok := item.(map[string]any)
			if !ok {
				continue
			}
			resp.Settings = append(resp.Settings, Setting{
				Parameter: stringField(e, "parameter"),
				Status:    stringField(e, "status"),
				Value:     stringField(e, "value"),
				Rationale: stringField(e, "rationale"),
				Quirk:     stringField(e, "quirk"),
			})
		}
	}
	resp.Report = stringList(m[fieldReport])
	resp.Unresolved = stringList(m[fieldUnresolved])
	return resp
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func stringList(raw any) []string {
	list, _ := raw.([]any)
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
