// Test Type: Unit Test
// Description: Tests for build information

package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Contains(t, info.String(), "cirules version "+Version)
	assert.Contains(t, info.String(), "commit: "+Commit)
}
