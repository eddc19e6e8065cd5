package recorder

// NoopRecorder is used when no dedup backend is configured. Nothing is
// remembered, so every scan may re-notify.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) Seen(_ string) (bool, error)    { return false, nil }
func (n *NoopRecorder) Record(_ *Record) error         { return nil }
func (n *NoopRecorder) Recent(_ int) ([]Record, error) { return nil, nil }
func (n *NoopRecorder) Clear() error                   { return nil }
func (n *NoopRecorder) Close() error                   { return nil }
