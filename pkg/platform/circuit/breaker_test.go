package circuit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
)

type BreakerSuite struct {
	suite.Suite
}

func TestBreakerSuite(t *testing.T) {
	suite.Run(t, new(BreakerSuite))
}

func (s *BreakerSuite) TestStartsClosed() {
	b := New("broker")
	s.False(b.IsOpen())
	s.Equal(StateClosed, b.State())
	s.Equal("broker", b.Name())
}

func (s *BreakerSuite) TestOpening() {
	s.Run("opens on the threshold failure only", func() {
		b := New("broker", WithFailureThreshold(2))
		degraded, change := b.RecordFailure()
		s.False(degraded)
		s.False(change.Opened)

		degraded, change = b.RecordFailure()
		s.True(degraded)
		s.True(change.Opened)

		degraded, change = b.RecordFailure()
		s.True(degraded)
		s.False(change.Opened, "already open")
	})

	s.Run("a success in between restarts the count", func() {
		b := New("broker", WithFailureThreshold(2))
		b.RecordFailure()
		b.RecordSuccess()
		b.RecordFailure()
		s.False(b.IsOpen())
	})
}

func (s *BreakerSuite) TestClosing() {
	b := New("broker", WithFailureThreshold(1), WithSuccessThreshold(2))
	b.RecordFailure()
	s.Require().True(b.IsOpen())

	primary, change := b.RecordSuccess()
	s.False(primary)
	s.False(change.Closed)

	b.RecordFailure()
	primary, _ = b.RecordSuccess()
	s.False(primary, "failure reset the success streak")

	primary, change = b.RecordSuccess()
	s.True(primary)
	s.True(change.Closed)
	s.Equal(StateClosed, b.State())
}

func (s *BreakerSuite) TestReset() {
	b := New("broker", WithFailureThreshold(1))
	b.RecordFailure()
	b.Reset()
	s.False(b.IsOpen())
}

func (s *BreakerSuite) TestConcurrentFailuresOpenOnce() {
	b := New("broker", WithFailureThreshold(10))
	var wg sync.WaitGroup
	var mu sync.Mutex
	opened := 0
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, change := b.RecordFailure(); change.Opened {
				mu.Lock()
				opened++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	s.Equal(1, opened)
	s.True(b.IsOpen())
}
