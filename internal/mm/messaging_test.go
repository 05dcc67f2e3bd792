//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package mm

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func quiet(lvl int) (*MessageMaker, *bytes.Buffer) {
	var b bytes.Buffer
	m := NewMessageMaker("Test", "TST", "0.0.1", lvl)
	m.BW = true
	m.Out = &b
	return m, &b
}

func TestEmitRespectsLevel(t *testing.T) {
	m, b := quiet(MSGNOTE)
	m.NOTE("shown")
	m.FYI("hidden")
	m.MAND("always")
	assert.Equal(t, "[TST] shown\n[TST] always\n", b.String())
}

func TestColorAndStyleInBlackAndWhite(t *testing.T) {
	m, _ := quiet(MSGNOTE)
	assert.Equal(t, "[git: abc]", m.Color("[git: C4abcC0]"))
	assert.Equal(t, "bold", m.Styled("S1boldS0"))

	m.BW = false
	m.Win = false
	assert.Equal(t, "[git: "+GREEN+"abc"+RESET+"]", m.Color("[git: C4abcC0]"))
}

func TestEC(t *testing.T) {
	m, b := quiet(MSGNOTE)
	code := -1
	m.Exit = func(i int) { code = i }

	m.EC(nil)
	assert.Equal(t, -1, code)

	m.ForCaller("Load()").EC(errors.New("disk full"))
	assert.Equal(t, 1, code)
	assert.Contains(t, b.String(), "Load()")
	assert.Contains(t, b.String(), "disk full")
}

func TestTimer(t *testing.T) {
	m, b := quiet(MSGFYI)
	start := time.Now()
	m.Timer("A1", "did a thing", start, start)
	out := b.String()
	assert.True(t, strings.HasPrefix(out, "[TST] [A1: "))
	assert.Contains(t, out, "[Δ: ")
	assert.Contains(t, out, "did a thing")
}
