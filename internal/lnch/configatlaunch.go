//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"text/template"

	"github.com/e-gun/TextClusterLab/internal/str"
	"github.com/e-gun/TextClusterLab/internal/vv"
)

var (
	Config = BuildDefaultConfig()
	Msg    = NewMessageMakerWithDefaults()
)

// LaunchAction - what main() should do once the arguments have been read
type LaunchAction int

const (
	RunAll LaunchAction = iota
	ShowHelp
	ShowVersion
	ShowFullVersion
)

var ErrMissingValue = errors.New("flag requires a value")

// ConfigAtLaunch - read the configuration values from JSON and/or command line
func ConfigAtLaunch() {
	const (
		FAIL1 = "Could not parse your information as a valid collection of credentials. Use the following template:"
		FAIL2 = `"{\"Pass\": \"YOURPASSWORDHERE\" ,\"Host\": \"127.0.0.1\", \"Port\": 5432, \"DBName\": \"textclusterlab\" ,\"User\": \"tcl_wr\"}"`
		FAIL3 = "Could not use the information in '%s'. Skipping and attempting to use built-in defaults instead."
		FAIL4 = "\t%s"
		FAIL5 = "Refusing to set a workercount greater than NumCPU: %d > %d ---> setting workercount value to NumCPU: %d"
		MSG1  = "'%s'%s loaded"
	)

	Config = BuildDefaultConfig()

	uh, _ := os.UserHomeDir()
	prolixcfg := filepath.Join(fmt.Sprintf(vv.CONFIGALTAPTH, uh), vv.CONFIGPROLIX)

	args := os.Args[1:]

	if _, e := os.Stat(prolixcfg); e == nil {
		y := ""
		if err := LoadConfigFile(prolixcfg, Config); err != nil {
			Msg.CRIT(fmt.Sprintf(FAIL3, prolixcfg))
			for _, p := range SchemaProblems(err) {
				Msg.CRIT(fmt.Sprintf(FAIL4, p))
			}
			Config = BuildDefaultConfig()
			y = " *not*"
		}
		Msg.TMI(fmt.Sprintf(MSG1, prolixcfg, y))
	}

	// an experiment file sits between the user's config and the flags
	for i, a := range args {
		if a == "-cf" && i+1 < len(args) {
			if err := LoadConfigFile(args[i+1], Config); err != nil {
				for _, p := range SchemaProblems(err) {
					Msg.CRIT(fmt.Sprintf(FAIL4, p))
				}
				Msg.EC(err)
			}
		}
	}

	act, err := ParseArgs(Config, args)
	if err != nil {
		if strings.Contains(err.Error(), "-pg") {
			Msg.MAND(FAIL1)
			Msg.CRIT(FAIL2)
		}
		Msg.EC(err)
	}

	UpdateMessageMakerWithConfig(Msg)

	switch act {
	case ShowHelp:
		fmt.Println(HelpText(Config))
		os.Exit(0)
	case ShowVersion:
		fmt.Println(vv.VERSION + VersSuppl)
		os.Exit(1)
	case ShowFullVersion:
		PrintVersion(*Config)
		PrintBuildInfo(*Config)
		os.Exit(1)
	default:
		// run
	}

	if Config.WorkerCount > runtime.NumCPU() {
		Msg.CRIT(fmt.Sprintf(FAIL5, Config.WorkerCount, runtime.NumCPU(), runtime.NumCPU()))
		Config.WorkerCount = runtime.NumCPU()
	}
}

// ParseArgs - apply "-xx value" style arguments on top of cc
func ParseArgs(cc *str.CurrentConfiguration, args []string) (LaunchAction, error) {
	act := RunAll

	next := func(i int, flag string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s: %w", flag, ErrMissingValue)
		}
		return args[i+1], nil
	}

	nextint := func(i int, flag string) (int, error) {
		v, err := next(i, flag)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", flag, err)
		}
		return n, nil
	}

	var err error
	for i, a := range args {
		switch a {
		case "-h":
			act = ShowHelp
		case "-v":
			act = ShowVersion
		case "-vv":
			act = ShowFullVersion
		case "-bw":
			cc.BlackAndWhite = true
		case "-cf":
			// already consumed by ConfigAtLaunch(); only check that a value follows
			_, err = next(i, a)
		case "-db":
			cc.LedgerPath, err = next(i, a)
		case "-el":
			cc.EchoLog, err = nextint(i, a)
		case "-gl":
			cc.LogLevel, err = nextint(i, a)
		case "-gz":
			cc.Gzip = true
		case "-kc":
			cc.KeepIntermediate = true
		case "-nc":
			cc.NClusters, err = nextint(i, a)
		case "-nd":
			cc.NumDocsToRead, err = nextint(i, a)
		case "-ns":
			cc.NumSamples, err = nextint(i, a)
		case "-pc":
			cc.ProfileCPU = true
		case "-pg":
			var js string
			js, err = next(i, a)
			if err == nil {
				var pl str.PostgresLogin
				if e := json.Unmarshal([]byte(js), &pl); e != nil {
					err = fmt.Errorf("-pg: %w", e)
				} else {
					cc.PGLogin = pl
				}
			}
		case "-pm":
			cc.ProfileMEM = true
		case "-r1":
			cc.SkipRetrieve = true
		case "-r2":
			cc.SkipCluster = true
		case "-rs":
			cc.RandomState, err = nextint(i, a)
		case "-sa":
			cc.HostIP, err = next(i, a)
		case "-so":
			cc.ServeOnly = true
		case "-sp":
			cc.HostPort, err = nextint(i, a)
		case "-sv":
			cc.Serve = true
		case "-wc":
			cc.WorkerCount, err = nextint(i, a)
		case "-wd":
			cc.ProjectDir, err = next(i, a)
		default:
			// do nothing
		}
		if err != nil {
			return act, err
		}
	}

	if cc.WorkerCount < 1 {
		cc.WorkerCount = 1
	}
	return act, nil
}

// BuildDefaultConfig - return a CurrentConfiguration filled out with various default values
func BuildDefaultConfig() *str.CurrentConfiguration {
	var c str.CurrentConfiguration
	c.ProjectDir = "."
	c.RawDataDir = vv.RAWDATADIR
	c.NotebookDir = vv.NOTEBOOKDIR
	c.Topics = strings.Split(vv.DEFAULTTOPICS, ",")
	c.StopwordsURL = vv.STOPWORDSURL
	c.StopwordsLang = vv.STOPWORDSLANG
	c.NumSamples = vv.NUMSAMPLES
	c.NClusters = vv.NCLUSTERS
	c.RandomState = vv.KMEANSSEED
	c.ShuffleSeed = vv.SHUFFLESEED
	c.NumDocsToRead = vv.NUMDOCSTOREAD
	c.TextColumn = vv.TEXTCOLUMN
	c.RemoveNum = false
	c.LogLevel = vv.DEFAULTGOLOGLEVEL
	c.EchoLog = vv.DEFAULTECHOLOGLEVEL
	c.BlackAndWhite = vv.BLACKANDWHITE
	c.WorkerCount = runtime.NumCPU()
	c.HostIP = vv.SERVEDFROMHOST
	c.HostPort = vv.SERVEDFROMPORT
	c.Gzip = vv.USEGZIP
	c.LedgerPath = vv.LEDGERNAME

	if uh, e := os.UserHomeDir(); e == nil {
		c.StopwordsDir = fmt.Sprintf(vv.STOPWORDSALTPATH, uh)
	} else {
		c.StopwordsDir = "nltk_data/corpora/stopwords"
	}

	c.PGLogin = str.PostgresLogin{
		Host:   vv.DEFAULTPSQLHOST,
		Port:   vv.DEFAULTPSQLPORT,
		User:   vv.DEFAULTPSQLUSER,
		Pass:   "",
		DBName: vv.DEFAULTPSQLDB,
	}

	return &c
}

// HelpText - the colored "-h" output
func HelpText(cc *str.CurrentConfiguration) string {
	const (
		FAIL = "HelpText() failed to execute help text template"
	)

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "(unknown)"
	}
	uh, _ := os.UserHomeDir()

	m := map[string]interface{}{
		"conffile":  vv.CONFIGPROLIX,
		"cpus":      runtime.NumCPU(),
		"cwd":       cwd,
		"echoll":    cc.EchoLog,
		"tclll":     cc.LogLevel,
		"home":      fmt.Sprintf(vv.CONFIGALTAPTH, uh),
		"host":      cc.HostIP,
		"ledger":    cc.LedgerPath,
		"nclusters": cc.NClusters,
		"port":      cc.HostPort,
		"samples":   cc.NumSamples,
		"seed":      cc.RandomState,
		"toread":    cc.NumDocsToRead,
		"workers":   cc.WorkerCount,
	}

	t := template.Must(template.New("").Parse(vv.HELPTEXTTEMPLATE))

	var b bytes.Buffer
	if ee := t.Execute(&b, m); ee != nil {
		Msg.CRIT(FAIL)
	}
	return Msg.Styled(Msg.Color(b.String()))
}
