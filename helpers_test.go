package scripthost

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingPresenter struct {
	alerts []*Alert
}

func (p *recordingPresenter) Present(alert *Alert) error {
	p.alerts = append(p.alerts, alert)
	return nil
}

func newTestManager(t *testing.T, reg *Registry) (*Manager, *recordingPresenter) {
	t.Helper()
	if reg == nil {
		reg = NewRegistry()
	}
	presenter := &recordingPresenter{}
	m, err := New(Options{
		Registry:   reg,
		Presenter:  presenter,
		FileSystem: NewMemoryFileSystem(nil),
	})
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m, presenter
}

func mustRun(t *testing.T, m *Manager, text string) {
	t.Helper()
	ok, err := m.RunScript(text, 0)
	require.NoError(t, err)
	require.True(t, ok, "script failed: %v", m.LastError())
}
