package rest

import (
	"testing"

	"go.uber.org/zap"
)

// A shutdown signal can arrive before Start has run; Stop must cope with
// the server not being built yet.
func TestStopBeforeStart(t *testing.T) {
	restApp := NewRest(&Config{
		Port:     8080,
		MaxUsers: 4,
		MinUsers: 1,
		Logger:   zap.NewNop(),
	})

	restApp.Stop()
}
