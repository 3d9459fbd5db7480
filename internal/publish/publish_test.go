package publish

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/bayleafwalker/capture-core/internal/capability"
	"github.com/bayleafwalker/capture-core/internal/capture"
	"github.com/bayleafwalker/capture-core/internal/resolver"
)

type recordingPublisher struct {
	subject string
	payload []byte
}

func (r *recordingPublisher) Publish(_ context.Context, subject string, payload []byte) error {
	r.subject, r.payload = subject, payload
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func TestPublishPlan(t *testing.T) {
	c := capability.NewBuilder().
		Set(capture.ControlMode, capability.Enums("OFF", "AUTO")).
		Set(capture.AWBMode, capability.Enums("OFF", "AUTO")).
		Build()
	r := &resolver.DefaultResolver{NewRunID: func() string { return "run-7" }}
	plan, err := r.Resolve(context.Background(), resolver.Input{Catalog: c, Options: capture.DefaultOptions()})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	pub := &recordingPublisher{}
	if err := PublishPlan(context.Background(), pub, "cam-0", plan); err != nil {
		t.Fatalf("PublishPlan: %v", err)
	}
	if pub.subject != "capture.settings.cam-0" {
		t.Fatalf("unexpected subject %q", pub.subject)
	}

	var msg PlanMessage
	if err := json.Unmarshal(pub.payload, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.RunID != "run-7" || len(msg.Settings) != len(capture.Declared()) {
		t.Fatalf("unexpected message header: %+v", msg)
	}
	first, second := msg.Settings[0], msg.Settings[2]
	if first.Parameter != string(capture.ControlMode) || first.Status != "RESOLVED" || first.Value != "OFF" {
		t.Fatalf("unexpected control-mode entry %+v", first)
	}
	if second.Parameter != string(capture.AWBMode) || second.Status != "RESOLVED" || second.Value != "OFF" {
		t.Fatalf("unexpected awb-mode entry %+v", second)
	}
}

func TestSubject(t *testing.T) {
	if Subject("") != "capture.settings.default" {
		t.Fatalf("unexpected default subject %q", Subject(""))
	}
}
