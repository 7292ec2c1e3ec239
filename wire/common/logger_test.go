package common

import (
	"bytes"
	"os"
	"testing"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/stretchr/testify/assert"
)

func TestPackageLogger(t *testing.T) {
	var out bytes.Buffer
	SetLogOutput(&out)
	t.Cleanup(func() { SetLogOutput(os.Stderr) })

	l := CreateLogger("arena")
	l.Debugf("hidden %d", 1)
	l.Infof("shown %d", 2)
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "INFO  | arena           | shown 2")

	out.Reset()
	l.SetLevel(logger.WARNING)
	l.Infof("hidden")
	l.Warningf("lease %s", "[0:4]")
	l.Errorf("broken")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "WARN  | arena           | lease [0:4]")
	assert.Contains(t, out.String(), "ERROR | arena           | broken")

	l.SetLevel(logger.ERROR)
	assert.PanicsWithValue(t, "fatal 3", func() { l.Panicf("fatal %d", 3) })
	assert.Contains(t, out.String(), "CRIT  | arena           | fatal 3")
}

func TestInitLoggers(t *testing.T) {
	assert.Error(t, InitLoggers(Config{LogLevel: "loud"}))
	assert.NoError(t, InitLoggers(Config{LogLevel: "warn"}))
}
