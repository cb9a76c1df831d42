package profiling

import (
	"strings"
	"testing"

	"github.com/5280sourcegroup/website/config"
	"github.com/5280sourcegroup/website/pkg/logger"
	"github.com/5280sourcegroup/website/pkg/tracing"
	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	if err := logger.Initialize(logger.Config{Level: "debug", Environment: "development"}); err != nil {
		panic(err)
	}
}

func TestParseProfileTypes_Default(t *testing.T) {
	got, err := parseProfileTypes("")
	require.NoError(t, err)
	assert.Equal(t, defaultProfileTypes, got)
}

func TestParseProfileTypes_Custom(t *testing.T) {
	got, err := parseProfileTypes("cpu, alloc_space,mutex")
	require.NoError(t, err)

	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileAllocSpace,
		pyroscope.ProfileMutexCount,
		pyroscope.ProfileMutexDuration,
	}, got)
}

func TestParseProfileTypes_Invalid(t *testing.T) {
	_, err := parseProfileTypes("cpu,unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported O11Y_PROFILING_SAMPLE_TYPES")
}

func TestBuildApplicationName(t *testing.T) {
	svc := tracing.Service{
		Name:        "sourcegroup-web",
		Namespace:   "5280sourcegroup",
		Environment: "production",
		Version:     "1.2.0",
		InstanceID:  "inst-1",
	}

	got := buildApplicationName("", svc)
	assert.Equal(t, "sourcegroup-web{service_name=sourcegroup-web,namespace=5280sourcegroup,environment=production,service_version=1.2.0,instance=inst-1}", got)

	got = buildApplicationName(" web-canary ", svc)
	assert.True(t, strings.HasPrefix(got, "web-canary{"))
}

func TestStart_Disabled(t *testing.T) {
	stop, err := Start(config.ProfilingConfig{Enabled: false}, tracing.Service{})
	require.NoError(t, err)
	require.NotNil(t, stop)
	stop()
}

func TestStart_RequiresEndpoint(t *testing.T) {
	_, err := Start(config.ProfilingConfig{Enabled: true, Endpoint: "  "}, tracing.Service{})
	require.Error(t, err)
}
