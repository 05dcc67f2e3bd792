//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package mm

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

//
// TERMINAL OUTPUT/MESSAGES
//

const (
	MSGMAND              = -1
	MSGCRIT              = 0
	MSGWARN              = 1
	MSGNOTE              = 2
	MSGFYI               = 3
	MSGPEEK              = 4
	MSGTMI               = 5
	TIMETRACKERMSGTHRESH = MSGFYI
	RESET                = "\033[0m"
	BLUE1                = "\033[38;5;38m"  // DeepSkyBlue2
	BLUE2                = "\033[38;5;68m"  // SteelBlue3
	CYAN2                = "\033[38;5;117m" // SkyBlue1
	GREEN                = "\033[38;5;70m"  // Chartreuse3
	RED1                 = "\033[38;5;160m" // Red3
	YELLOW1              = "\033[38;5;178m" // Gold3
	YELLOW2              = "\033[38;5;143m" // DarkKhaki
	GREY3                = "\033[38;5;242m" // Grey42
	WHITE                = "\033[38;5;255m" // Grey93
	BLINK                = "\033[30;0;5m"
	PANIC                = "[%s%s v.%s%s] (%s%s%s) %sUNRECOVERABLE ERROR%s\n"
)

// MessageMaker - levelled, optionally colored, terminal output
type MessageMaker struct {
	Lnc  time.Time
	BW   bool
	Clr  string // caller
	LLvl int
	LNm  string
	SNm  string
	Ver  string
	Win  bool
	Out  io.Writer
	Exit func(int)
	mtx  sync.Mutex
}

// NewMessageMaker - a maker that writes to stdout at the default level
func NewMessageMaker(long string, short string, ver string, lvl int) *MessageMaker {
	return &MessageMaker{
		Lnc:  time.Now(),
		LLvl: lvl,
		LNm:  long,
		SNm:  short,
		Ver:  ver,
		Win:  runtime.GOOS == "windows",
		Out:  os.Stdout,
		Exit: os.Exit,
	}
}

// ForCaller - a copy of m that reports errors on behalf of fn
func (m *MessageMaker) ForCaller(fn string) *MessageMaker {
	return &MessageMaker{
		Lnc:  m.Lnc,
		BW:   m.BW,
		Clr:  fn,
		LLvl: m.LLvl,
		LNm:  m.LNm,
		SNm:  m.SNm,
		Ver:  m.Ver,
		Win:  m.Win,
		Out:  m.Out,
		Exit: m.Exit,
	}
}

func (m *MessageMaker) MAND(s string) { m.Emit(s, MSGMAND) }
func (m *MessageMaker) CRIT(s string) { m.Emit(s, MSGCRIT) }
func (m *MessageMaker) WARN(s string) { m.Emit(s, MSGWARN) }
func (m *MessageMaker) NOTE(s string) { m.Emit(s, MSGNOTE) }
func (m *MessageMaker) FYI(s string)  { m.Emit(s, MSGFYI) }
func (m *MessageMaker) PEEK(s string) { m.Emit(s, MSGPEEK) }
func (m *MessageMaker) TMI(s string)  { m.Emit(s, MSGTMI) }

func (m *MessageMaker) plain() bool {
	return m.Win || m.BW
}

func (m *MessageMaker) writer() io.Writer {
	if m.Out == nil {
		return os.Stdout
	}
	return m.Out
}

// Emit - send a message to the terminal, perhaps adding color and style to it
func (m *MessageMaker) Emit(message string, threshold int) {
	// sample output: "[TCL] Extract() found 'data/raw/cooking.csv'; did nothing"

	if m.LLvl < threshold {
		return
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.plain() {
		// terminal color codes not w's friend
		_, _ = fmt.Fprintf(m.writer(), "[%s] %s\n", m.SNm, message)
		return
	}

	var color string
	switch threshold {
	case MSGMAND:
		color = GREEN
	case MSGCRIT:
		color = RED1
	case MSGWARN:
		color = YELLOW2
	case MSGNOTE:
		color = YELLOW1
	case MSGFYI:
		color = CYAN2
	case MSGPEEK:
		color = BLUE2
	case MSGTMI:
		color = GREY3
	default:
		color = WHITE
	}
	_, _ = fmt.Fprintf(m.writer(), "[%s%s%s] %s%s%s\n", YELLOW1, m.SNm, RESET, color, message, RESET)
}

// Color - color text with ANSI codes by swapping out pseudo-tags
func (m *MessageMaker) Color(tagged string) string {
	// "[git: C4%sC0]" ==> green text for the %s
	swap := strings.NewReplacer("C1", "", "C2", "", "C3", "", "C4", "", "C5", "", "C6", "", "C7", "", "C0", "")

	if !m.plain() {
		swap = strings.NewReplacer("C1", YELLOW1, "C2", CYAN2, "C3", BLUE1, "C4", GREEN, "C5", RED1,
			"C6", GREY3, "C7", BLINK, "C0", RESET)
	}
	return swap.Replace(tagged)
}

// Styled - style text with ANSI codes by swapping out pseudo-tags
func (m *MessageMaker) Styled(tagged string) string {
	const (
		BOLD    = "\033[1m"
		ITAL    = "\033[3m"
		UNDER   = "\033[4m"
		REVERSE = "\033[7m"
		STRIKE  = "\033[9m"
	)
	swap := strings.NewReplacer("S1", "", "S2", "", "S3", "", "S4", "", "S5", "", "S0", "")

	if !m.plain() {
		swap = strings.NewReplacer("S1", BOLD, "S2", ITAL, "S3", UNDER, "S4", STRIKE, "S5", REVERSE,
			"S0", RESET)
	}
	return swap.Replace(tagged)
}

func (m *MessageMaker) ColStyle(tagged string) string {
	return m.Styled(m.Color(tagged))
}

// EC - report error and the function that hit it; then exit
func (m *MessageMaker) EC(err error) {
	if err == nil {
		return
	}
	_, _ = fmt.Fprintf(m.writer(), PANIC, YELLOW2, m.LNm, m.Ver, RESET, CYAN2, m.Clr, RESET, RED1, RESET)
	_, _ = fmt.Fprintln(m.writer(), err)
	m.ExitOrHang(1)
}

// ExitOrHang - Windows should hang to keep the error visible before the window closes and hides it
func (m *MessageMaker) ExitOrHang(e int) {
	const (
		HANG = `Execution suspended. %s is now frozen. Note any errors above. Execution will halt after %d seconds.`
		SUSP = 60
	)
	ex := m.Exit
	if ex == nil {
		ex = os.Exit
	}
	if m.Win {
		m.Emit(fmt.Sprintf(HANG, m.LNm, SUSP), MSGMAND)
		time.Sleep(SUSP * time.Second)
	}
	ex(e)
}

// Timer - report how much time elapsed between A and B
func (m *MessageMaker) Timer(letter string, o string, start time.Time, previous time.Time) {
	// sample output: "[B3: 33.764s][Δ: 8.024s] trained 4 pipelines"
	d := fmt.Sprintf("[Δ: %.3fs] ", time.Since(previous).Seconds())
	o = fmt.Sprintf("[%s: %.3fs]", letter, time.Since(start).Seconds()) + d + o
	m.Emit(o, TIMETRACKERMSGTHRESH)
}

// HeapReport - log the current heap; optionally do runtime.GC as well
func (m *MessageMaker) HeapReport(fn string, gc bool) {
	// sample output:
	// [a] "[TCL] RunClusteringTrials() runtime.GC() 426M --> 408M"
	// [b] "[TCL] RunClusteringTrials() current heap: 340M"
	const (
		MSG  = "%s runtime.GC() %s --> %s"
		HEAP = "%s current heap: %s"
	)

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	b := fmt.Sprintf("%dM", mem.HeapAlloc/1024/1024)

	if !gc {
		m.Emit(fmt.Sprintf(HEAP, fn, b), MSGPEEK)
		return
	}
	runtime.GC()
	runtime.ReadMemStats(&mem)
	a := fmt.Sprintf("%dM", mem.HeapAlloc/1024/1024)
	m.Emit(fmt.Sprintf(MSG, fn, b, a), MSGPEEK)
}
