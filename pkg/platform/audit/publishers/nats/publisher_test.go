package nats

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "droneregistry/pkg/platform/audit"
)

type fakeConn struct {
	subjects []string
	flushErr error
	drained  bool
}

func (f *fakeConn) Publish(subject string, _ []byte) error {
	f.subjects = append(f.subjects, subject)
	return nil
}

func (f *fakeConn) FlushWithContext(context.Context) error { return f.flushErr }

func (f *fakeConn) Drain() error {
	f.drained = true
	return nil
}

func TestPublishUsesCategorySubjects(t *testing.T) {
	fc := &fakeConn{}
	p := newPublisher(fc, "")
	events := []audit.Event{
		{ID: uuid.New(), Category: audit.CategoryCompliance, Action: "aircraft_created"},
		{ID: uuid.New(), Category: audit.CategoryOperations, Action: "rid_module_heartbeat"},
	}
	require.NoError(t, p.Publish(context.Background(), events))
	assert.Equal(t, []string{
		"registry.audit.compliance.aircraft_created",
		"registry.audit.operations.rid_module_heartbeat",
	}, fc.subjects)

	require.NoError(t, p.Close())
	assert.True(t, fc.drained)
}

func TestPublishReportsFlushFailure(t *testing.T) {
	p := newPublisher(&fakeConn{flushErr: errors.New("timeout")}, "ops")
	err := p.Publish(context.Background(), []audit.Event{{ID: uuid.New(), Action: "x"}})
	assert.ErrorContains(t, err, "flush nats")
}
