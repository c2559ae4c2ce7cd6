package bootstrap

import (
	"fmt"
	"io"
	"time"
)

// InfrastructureInfo describes one backend a command runs against.
type InfrastructureInfo struct {
	Name    string
	Type    string // e.g. "storage", "transcription", "telemetry"
	Details string
	Healthy bool
}

// Summary tracks and displays what a command was started with.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	infrastructure  []InfrastructureInfo
}

// NewSummary creates a new summary tracker.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{
		serviceName: serviceName,
		version:     version,
	}
}

// SetStartupDuration records the time the start hooks took.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackInfrastructure adds a backend with its details.
func (s *Summary) TrackInfrastructure(name, infraType, details string, healthy bool) {
	s.infrastructure = append(s.infrastructure, InfrastructureInfo{
		Name:    name,
		Type:    infraType,
		Details: details,
		Healthy: healthy,
	})
}

// Infrastructure returns the tracked backends in registration order.
func (s *Summary) Infrastructure() []InfrastructureInfo {
	return append([]InfrastructureInfo(nil), s.infrastructure...)
}

// Write prints the summary to w.
func (s *Summary) Write(w io.Writer) {
	version := s.version
	if version == "" {
		version = "dev"
	}
	fmt.Fprintf(w, "\n🚀 %s %s ready in %.2fs\n", s.serviceName, version, s.startupDuration.Seconds())
	if len(s.infrastructure) == 0 {
		fmt.Fprintf(w, "   └── No backends\n\n")
		return
	}
	fmt.Fprintf(w, "\n📊 Infrastructure\n")
	for i, inf := range s.infrastructure {
		prefix := "├──"
		if i == len(s.infrastructure)-1 {
			prefix = "└──"
		}
		fmt.Fprintf(w, "   %s %s %s [%s]: %s\n", prefix, statusIcon(inf.Healthy), inf.Name, inf.Type, inf.Details)
	}
	fmt.Fprintf(w, "\n")
}

func statusIcon(healthy bool) string {
	if healthy {
		return "✅"
	}
	return "❌"
}
