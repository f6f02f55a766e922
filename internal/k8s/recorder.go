package k8s

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/yaml"
)

// Recorder is an Applier that keeps objects in memory instead of writing
// them to a cluster. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	objects []runtime.Object
}

var _ Applier = (*Recorder)(nil)

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Apply records a copy of obj.
func (r *Recorder) Apply(_ context.Context, obj runtime.Object) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objects = append(r.objects, obj.DeepCopyObject())
	return nil
}

// Objects returns the recorded objects in apply order.
func (r *Recorder) Objects() []runtime.Object {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]runtime.Object(nil), r.objects...)
}

// Manifest renders the recorded objects as multi-document YAML.
func (r *Recorder) Manifest() ([]byte, error) {
	return BuildManifest(r.Objects())
}

// WithTimeout bounds every Apply of applier by d. A zero d leaves applier
// unchanged.
func WithTimeout(applier Applier, d time.Duration) Applier {
	if d <= 0 {
		return applier
	}
	return &timeoutApplier{applier: applier, timeout: d}
}

type timeoutApplier struct {
	applier Applier
	timeout time.Duration
}

func (a *timeoutApplier) Apply(ctx context.Context, obj runtime.Object) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.applier.Apply(ctx, obj)
}

// BuildManifest converts objects to a multi-document YAML stream, each
// document preceded by "---". Empty status blocks and creation timestamps
// are dropped.
func BuildManifest(objs []runtime.Object) ([]byte, error) {
	var buf bytes.Buffer
	for _, obj := range objs {
		if obj == nil {
			continue
		}
		m, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %T: %w", obj, err)
		}
		if meta, ok := m["metadata"].(map[string]any); ok {
			delete(meta, "creationTimestamp")
		}
		if status, ok := m["status"].(map[string]any); ok && len(status) == 0 {
			delete(m, "status")
		}
		if tmpl := nested(m, "spec", "template", "metadata"); tmpl != nil {
			delete(tmpl, "creationTimestamp")
		}
		data, err := yaml.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %T: %w", obj, err)
		}
		buf.WriteString("---\n")
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

func nested(m map[string]any, path ...string) map[string]any {
	cur := m
	for _, p := range path {
		next, ok := cur[p].(map[string]any)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}
