package mocks

type scopeImpl struct {
	name   string
	parent *Otel
}

func (s *scopeImpl) AddEvent(_ string) {}

func (s *scopeImpl) End() {}

func (s *scopeImpl) SetAttribute(_ string, _ any) {}

func (s *scopeImpl) SetAttributes(_ map[string]any) {}

func (s *scopeImpl) TraceError(err error) {
	if s.parent != nil && err != nil {
		s.parent.record(s.name, err)
	}
}

func (s *scopeImpl) TraceIfError(err error) {
	s.TraceError(err)
}
