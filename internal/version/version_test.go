package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.Equal(t, "datadocs unknown", String())

	oldVersion, oldCommit, oldTime := Version, GitCommit, BuildTime
	t.Cleanup(func() { Version, GitCommit, BuildTime = oldVersion, oldCommit, oldTime })
	Version, GitCommit, BuildTime = "v1.2.0", "abc123", "2026-01-02"
	assert.Equal(t, "datadocs v1.2.0 (abc123, built 2026-01-02)", String())
}
