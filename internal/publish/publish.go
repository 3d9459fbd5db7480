package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bayleafwalker/capture-core/internal/resolver"
)

// Publisher is the minimal event-publishing seam.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload []byte) error
	Close() error
}

// SubjectPrefix is prepended to the device name to form the subject of a plan message.
const SubjectPrefix = "capture.settings"

// PlanMessage is the wire form of a resolved plan.
type PlanMessage struct {
	RunID     string           `json:"runId"`
	Device    string           `json:"device"`
	Settings  []SettingMessage `json:"settings"`
	Anomalies int              `json:"anomalies"`
	Fallbacks int              `json:"fallbacks"`
}

type SettingMessage struct {
	Parameter string `json:"parameter"`
	Status    string `json:"status"`
	Value     string `json:"value,omitempty"`
	Rationale string `json:"rationale,omitempty"`
	Quirk     string `json:"quirk,omitempty"`
}

func Subject(device string) string {
	if device == "" {
		return SubjectPrefix + ".default"
	}
	return SubjectPrefix + "." + device
}

func EncodePlan(device string, plan resolver.Plan) ([]byte, error) {
	msg := PlanMessage{
		RunID:     plan.RunID,
		Device:    device,
		Anomalies: len(plan.Diagnostics.Anomalies),
		Fallbacks: len(plan.Diagnostics.Fallbacks),
	}
	for _, s := range plan.Settings.Entries() {
		sm := SettingMessage{
			Parameter: string(s.Parameter),
			Status:    s.Status.String(),
			Rationale: s.Rationale,
			Quirk:     s.Quirk,
		}
		if s.IsResolved() {
			sm.Value = s.Value.String()
		}
		msg.Settings = append(msg.Settings, sm)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode plan %s: %w", plan.RunID, err)
	}
	return data, nil
}

// PublishPlan encodes plan and publishes it under Subject(device).
func PublishPlan(ctx context.Context, p Publisher, device string, plan resolver.Plan) error {
	data, err := EncodePlan(device, plan)
	if err != nil {
		return err
	}
	if err := p.Publish(ctx, Subject(device), data); err != nil {
		return fmt.Errorf("publish plan %s: %w", plan.RunID, err)
	}
	return nil
}
